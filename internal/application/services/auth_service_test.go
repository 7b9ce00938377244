package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/config"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/logger"
)

func newTestAuthService(repo *memoryRepo, jwtCfg config.JWTConfig) *AuthService {
	svc := NewAuthService(repo, jwtCfg, config.CalendarConfig{
		AuditCapacity: 100,
		BcryptCost:    bcrypt.MinCost,
	}, logger.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSetPasswordOnce(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestAuthService(repo, config.JWTConfig{})
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "lea", "geheim"))
	assert.True(t, svc.HasPassword(ctx, "lea"))

	// the second attempt fails and the first password keeps working
	err := svc.SetPassword(ctx, "lea", "anderes")
	assert.ErrorIs(t, err, entities.ErrPasswordAlreadySet)

	_, err = svc.Verify(ctx, "lea", "geheim")
	assert.NoError(t, err)
	_, err = svc.Verify(ctx, "lea", "anderes")
	assert.ErrorIs(t, err, entities.ErrWrongPassword)
}

func TestSetPasswordStoresHash(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestAuthService(repo, config.JWTConfig{})

	require.NoError(t, svc.SetPassword(context.Background(), "lea", "geheim"))

	stored := repo.credentials["lea"].Password
	assert.NotEqual(t, "geheim", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("geheim")))
}

func TestVerifyWithoutCredential(t *testing.T) {
	svc := newTestAuthService(newMemoryRepo(), config.JWTConfig{})

	_, err := svc.Verify(context.Background(), "lea", "geheim")
	assert.ErrorIs(t, err, entities.ErrNoPasswordSet)
}

func TestVerifyLegacyPlaintextCredential(t *testing.T) {
	repo := newMemoryRepo()
	repo.credentials["oma"] = entities.UserCredential{Name: "oma", Password: "klartext"}
	svc := newTestAuthService(repo, config.JWTConfig{})
	ctx := context.Background()

	_, err := svc.Verify(ctx, "oma", "klartext")
	assert.NoError(t, err)

	_, err = svc.Verify(ctx, "oma", "falsch")
	assert.ErrorIs(t, err, entities.ErrWrongPassword)
}

func TestVerifyIssuesTokenWhenSecretConfigured(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestAuthService(repo, config.JWTConfig{
		Secret:    "test-secret",
		ExpiresIn: time.Hour,
		Issuer:    "bruno-kalender",
	})
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "lea", "geheim"))
	token, err := svc.Verify(ctx, "lea", "geheim")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	name, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "lea", name)
}

func TestVerifyWithoutSecretReturnsNoToken(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestAuthService(repo, config.JWTConfig{})
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "lea", "geheim"))
	token, err := svc.Verify(ctx, "lea", "geheim")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestValidateTokenRejectsForgedToken(t *testing.T) {
	svc := newTestAuthService(newMemoryRepo(), config.JWTConfig{
		Secret:    "test-secret",
		ExpiresIn: time.Hour,
	})
	other := newTestAuthService(newMemoryRepo(), config.JWTConfig{
		Secret:    "another-secret",
		ExpiresIn: time.Hour,
	})

	token, err := other.generateToken("lea")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuditLogRecordsEvents(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestAuthService(repo, config.JWTConfig{})
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "lea", "geheim"))
	_, err := svc.Verify(ctx, "lea", "geheim")
	require.NoError(t, err)

	logins := svc.Logins(ctx)
	require.Len(t, logins, 2)
	assert.Equal(t, entities.AuditEventPasswordSet, logins[0].Type)
	assert.Equal(t, entities.AuditEventLogin, logins[1].Type)
	assert.Equal(t, "lea", logins[1].Name)
}

func TestAuditLogEvictsOldestBeyondCapacity(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestAuthService(repo, config.JWTConfig{})
	ctx := context.Background()

	for i := 0; i < entities.DefaultAuditCapacity+1; i++ {
		svc.appendAudit(ctx, fmt.Sprintf("user-%d", i), entities.AuditEventLogin)
	}

	logins := svc.Logins(ctx)
	require.Len(t, logins, entities.DefaultAuditCapacity)
	// the very first entry fell off the front
	assert.Equal(t, "user-1", logins[0].Name)
	assert.Equal(t, fmt.Sprintf("user-%d", entities.DefaultAuditCapacity), logins[len(logins)-1].Name)
}

func TestAuditFailureDoesNotFailLogin(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestAuthService(repo, config.JWTConfig{})
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "lea", "geheim"))

	repo.failSaves = true
	_, err := svc.Verify(ctx, "lea", "geheim")
	assert.NoError(t, err)
}

func TestResetCredentials(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestAuthService(repo, config.JWTConfig{})
	ctx := context.Background()

	require.NoError(t, svc.SetPassword(ctx, "lea", "geheim"))
	require.True(t, svc.ResetCredentials(ctx))

	assert.False(t, svc.HasPassword(ctx, "lea"))
	_, err := svc.Verify(ctx, "lea", "geheim")
	assert.ErrorIs(t, err, entities.ErrNoPasswordSet)
}

func TestSetPasswordSaveFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.failSaves = true
	svc := newTestAuthService(repo, config.JWTConfig{})

	err := svc.SetPassword(context.Background(), "lea", "geheim")
	assert.ErrorIs(t, err, entities.ErrStoreUnavailable)
}
