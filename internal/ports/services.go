package ports

import (
	"context"

	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
)

// CleanupResult reports what an ad hoc name cleanup removed.
type CleanupResult struct {
	DeletedBetreuung  int `json:"deletedBetreuung"`
	ClearedLeaHelpers int `json:"clearedLeaHelpers"`
}

// ParticipantSubmission is one additive availability submission.
type ParticipantSubmission struct {
	Name           string              `json:"name" validate:"required"`
	AvailableSlots []entities.TimeSlot `json:"availableSlots" validate:"required,min=1,dive"`
}

// CalendarService owns every transform over the shared record. Each call
// loads the current blob, replaces exactly one field and saves the whole
// record back.
type CalendarService interface {
	GetRecord(ctx context.Context) *entities.CalendarRecord
	ReplaceRecord(ctx context.Context, record *entities.CalendarRecord) bool
	ToggleDate(ctx context.Context, date string) (*entities.CalendarRecord, error)
	UpsertLeaRequest(ctx context.Context, request entities.LeaRequest) (*entities.CalendarRecord, error)
	AddBetreuungEntry(ctx context.Context, entry entities.BetreuungEntry) (*entities.CalendarRecord, error)
	AddParticipant(ctx context.Context, submission ParticipantSubmission) (*entities.CalendarRecord, error)
	ClaimHelper(ctx context.Context, date, helper string) (*entities.CalendarRecord, error)
	Reset(ctx context.Context) bool
	Cleanup(ctx context.Context, name string) (*CleanupResult, error)
}

// AuthService owns the credential map and the login audit log.
type AuthService interface {
	HasPassword(ctx context.Context, name string) bool
	SetPassword(ctx context.Context, name, password string) error
	// Verify checks the password and returns a session token when a
	// signing secret is configured, otherwise an empty string.
	Verify(ctx context.Context, name, password string) (string, error)
	ValidateToken(token string) (string, error)
	Logins(ctx context.Context) []entities.LoginAuditEntry
	ResetCredentials(ctx context.Context) bool
}
