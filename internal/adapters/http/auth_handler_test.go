package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/benedevries-code/lea-kalender/internal/application/services"
	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/config"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/logger"
	"github.com/benedevries-code/lea-kalender/internal/ports"
)

// memoryRepo backs handler tests without touching disk.
type memoryRepo struct {
	record      *entities.CalendarRecord
	credentials entities.CredentialMap
	auditLog    []entities.LoginAuditEntry
	failSaves   bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		record:      entities.EmptyCalendarRecord(),
		credentials: entities.CredentialMap{},
	}
}

func (m *memoryRepo) LoadRecord(ctx context.Context) *entities.CalendarRecord {
	clone := *m.record
	return &clone
}

func (m *memoryRepo) SaveRecord(ctx context.Context, record *entities.CalendarRecord) bool {
	if m.failSaves {
		return false
	}
	m.record = record
	return true
}

func (m *memoryRepo) LoadCredentials(ctx context.Context) entities.CredentialMap {
	out := entities.CredentialMap{}
	for k, v := range m.credentials {
		out[k] = v
	}
	return out
}

func (m *memoryRepo) SaveCredentials(ctx context.Context, users entities.CredentialMap) bool {
	if m.failSaves {
		return false
	}
	m.credentials = users
	return true
}

func (m *memoryRepo) LoadAuditLog(ctx context.Context) []entities.LoginAuditEntry {
	return append([]entities.LoginAuditEntry{}, m.auditLog...)
}

func (m *memoryRepo) SaveAuditLog(ctx context.Context, entries []entities.LoginAuditEntry) bool {
	if m.failSaves {
		return false
	}
	m.auditLog = entries
	return true
}

func (m *memoryRepo) Ping(ctx context.Context) error { return nil }

var _ ports.CalendarRepository = (*memoryRepo)(nil)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func newAuthFixture(repo *memoryRepo) (*echo.Echo, *AuthHandler) {
	authService := services.NewAuthService(repo, config.JWTConfig{}, config.CalendarConfig{
		AuditCapacity: 100,
		BcryptCost:    bcrypt.MinCost,
	}, logger.NewNop())
	return newTestEcho(), NewAuthHandler(authService, logger.NewNop())
}

func doJSON(e *echo.Echo, handler echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthGetHasPassword(t *testing.T) {
	repo := newMemoryRepo()
	repo.credentials["lea"] = entities.UserCredential{Name: "lea", Password: "$2a$10$hash"}
	e, h := newAuthFixture(repo)

	rec := doJSON(e, h.Get, http.MethodGet, "/auth?name=lea", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hasPassword":true}`, rec.Body.String())

	rec = doJSON(e, h.Get, http.MethodGet, "/auth?name=oma", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"hasPassword":false}`, rec.Body.String())
}

func TestAuthGetRequiresName(t *testing.T) {
	e, h := newAuthFixture(newMemoryRepo())

	rec := doJSON(e, h.Get, http.MethodGet, "/auth", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Name erforderlich"}`, rec.Body.String())
}

func TestAuthGetLogins(t *testing.T) {
	repo := newMemoryRepo()
	repo.auditLog = []entities.LoginAuditEntry{
		{Name: "lea", Timestamp: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC), Type: entities.AuditEventLogin},
	}
	e, h := newAuthFixture(repo)

	rec := doJSON(e, h.Get, http.MethodGet, "/auth?action=logins", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Logins []entities.LoginAuditEntry `json:"logins"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Logins, 1)
	assert.Equal(t, "lea", body.Logins[0].Name)
}

func TestAuthPostFirstTimeSetup(t *testing.T) {
	repo := newMemoryRepo()
	e, h := newAuthFixture(repo)

	rec := doJSON(e, h.Post, http.MethodPost, "/auth",
		`{"name":"lea","password":"geheim","isFirstTime":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Passwort gesetzt"}`, rec.Body.String())

	// the second setup attempt is rejected
	rec = doJSON(e, h.Post, http.MethodPost, "/auth",
		`{"name":"lea","password":"anderes","isFirstTime":true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Passwort bereits gesetzt","success":false}`, rec.Body.String())
}

func TestAuthPostLogin(t *testing.T) {
	repo := newMemoryRepo()
	e, h := newAuthFixture(repo)

	rec := doJSON(e, h.Post, http.MethodPost, "/auth",
		`{"name":"lea","password":"geheim","isFirstTime":true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, h.Post, http.MethodPost, "/auth",
		`{"name":"lea","password":"geheim"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Login erfolgreich"}`, rec.Body.String())
}

func TestAuthPostWrongPassword(t *testing.T) {
	repo := newMemoryRepo()
	e, h := newAuthFixture(repo)

	doJSON(e, h.Post, http.MethodPost, "/auth",
		`{"name":"lea","password":"geheim","isFirstTime":true}`)

	rec := doJSON(e, h.Post, http.MethodPost, "/auth",
		`{"name":"lea","password":"falsch"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Falsches Passwort","success":false}`, rec.Body.String())
}

func TestAuthPostLoginWithoutPasswordSet(t *testing.T) {
	e, h := newAuthFixture(newMemoryRepo())

	rec := doJSON(e, h.Post, http.MethodPost, "/auth",
		`{"name":"lea","password":"geheim"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Kein Passwort gesetzt","needsSetup":true}`, rec.Body.String())
}

func TestAuthPostMissingFields(t *testing.T) {
	e, h := newAuthFixture(newMemoryRepo())

	rec := doJSON(e, h.Post, http.MethodPost, "/auth", `{"name":"lea"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Name und Passwort erforderlich"}`, rec.Body.String())
}

func TestAuthPostSetupSaveFailure(t *testing.T) {
	repo := newMemoryRepo()
	repo.failSaves = true
	e, h := newAuthFixture(repo)

	rec := doJSON(e, h.Post, http.MethodPost, "/auth",
		`{"name":"lea","password":"geheim","isFirstTime":true}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Fehler beim Speichern"}`, rec.Body.String())
}
