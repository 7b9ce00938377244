package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/config"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/logger"
	"github.com/benedevries-code/lea-kalender/internal/ports"
)

// Claims represents the session token claims
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// AuthService owns the credential map and the login audit log.
// Passwords are stored bcrypt-hashed; legacy plaintext records are
// tolerated on verify so older blobs keep working.
type AuthService struct {
	repo      ports.CalendarRepository
	jwtConfig config.JWTConfig
	cfg       config.CalendarConfig
	logger    *logger.Logger
	mu        sync.Mutex
	now       func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(repo ports.CalendarRepository, jwtConfig config.JWTConfig, cfg config.CalendarConfig, log *logger.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtConfig: jwtConfig,
		cfg:       cfg,
		logger:    log.WithComponent("auth"),
		now:       time.Now,
	}
}

// HasPassword reports whether name already has a credential. It returns
// false when the store is unreachable so first-time setup stays possible
// during outages.
func (s *AuthService) HasPassword(ctx context.Context, name string) bool {
	users := s.repo.LoadCredentials(ctx)
	return users[name].Password != ""
}

// SetPassword creates the credential for name. Once set it can never be
// set again; subsequent attempts fail with entities.ErrPasswordAlreadySet.
func (s *AuthService) SetPassword(ctx context.Context, name, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.repo.LoadCredentials(ctx)
	if users[name].Password != "" {
		return entities.ErrPasswordAlreadySet
	}

	cost := s.cfg.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users[name] = entities.UserCredential{
		Name:      name,
		Password:  string(hash),
		CreatedAt: s.now(),
	}

	if !s.repo.SaveCredentials(ctx, users) {
		return entities.ErrStoreUnavailable
	}

	s.appendAudit(ctx, name, entities.AuditEventPasswordSet)
	s.logger.Info("Password set", "name", name)
	return nil
}

// Verify checks name's password. It fails with entities.ErrNoPasswordSet
// when no credential exists (the caller routes to first-time setup) and
// entities.ErrWrongPassword on mismatch. On success it returns a signed
// session token when a secret is configured, otherwise an empty string.
func (s *AuthService) Verify(ctx context.Context, name, password string) (string, error) {
	users := s.repo.LoadCredentials(ctx)

	stored := users[name].Password
	if stored == "" {
		return "", entities.ErrNoPasswordSet
	}

	if isBcryptHash(stored) {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			s.logger.LogSecurityEvent("wrong_password", name, "", nil)
			return "", entities.ErrWrongPassword
		}
	} else if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) != 1 {
		s.logger.LogSecurityEvent("wrong_password", name, "", nil)
		return "", entities.ErrWrongPassword
	}

	s.mu.Lock()
	s.appendAudit(ctx, name, entities.AuditEventLogin)
	s.mu.Unlock()

	if s.jwtConfig.Secret == "" {
		return "", nil
	}

	token, err := s.generateToken(name)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return token, nil
}

// ValidateToken checks a session token and returns the user name it was
// issued for.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	return claims.Name, nil
}

// Logins returns the audit log in storage order, oldest first.
func (s *AuthService) Logins(ctx context.Context) []entities.LoginAuditEntry {
	return s.repo.LoadAuditLog(ctx)
}

// ResetCredentials wipes the credential map.
func (s *AuthService) ResetCredentials(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.SaveCredentials(ctx, entities.CredentialMap{})
}

// appendAudit appends one event and truncates to the newest entries.
// Audit failures are logged, never surfaced: the log is best-effort.
func (s *AuthService) appendAudit(ctx context.Context, name string, event entities.AuditEventType) {
	capacity := s.cfg.AuditCapacity
	if capacity < 1 {
		capacity = entities.DefaultAuditCapacity
	}

	entries := s.repo.LoadAuditLog(ctx)
	entries = append(entries, entities.LoginAuditEntry{
		Name:      name,
		Timestamp: s.now(),
		Type:      event,
	})
	if len(entries) > capacity {
		entries = entries[len(entries)-capacity:]
	}

	if !s.repo.SaveAuditLog(ctx, entries) {
		s.logger.Warn("Audit log save failed", "name", name, "event", event)
	}
}

func (s *AuthService) generateToken(name string) (string, error) {
	claims := &Claims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(s.jwtConfig.ExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(s.now()),
			NotBefore: jwt.NewNumericDate(s.now()),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   name,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
