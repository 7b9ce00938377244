package ports

import (
	"context"

	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
)

// KeyValueStore is the persistence port behind the calendar repository.
// Implementations store opaque JSON blobs under fixed keys; the store is
// selected once at process start and passed in explicitly.
type KeyValueStore interface {
	// Get returns the raw value for key, or entities.ErrKeyNotFound
	// when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the entire prior value. Last write wins.
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
	// Name identifies the backing driver for health output.
	Name() string
}

// CalendarRepository wraps the store with the blob contracts of the
// application: loads degrade to empty defaults, saves report success.
type CalendarRepository interface {
	// LoadRecord returns the stored record or the empty default shape.
	// It never fails; store errors degrade to the default.
	LoadRecord(ctx context.Context) *entities.CalendarRecord
	// SaveRecord overwrites the stored record wholesale.
	SaveRecord(ctx context.Context, record *entities.CalendarRecord) bool

	// LoadCredentials returns the credential map, empty when absent or
	// the store is unreachable so first-time setup stays possible.
	LoadCredentials(ctx context.Context) entities.CredentialMap
	SaveCredentials(ctx context.Context, users entities.CredentialMap) bool

	// LoadAuditLog returns login events in storage order, oldest first.
	LoadAuditLog(ctx context.Context) []entities.LoginAuditEntry
	SaveAuditLog(ctx context.Context, entries []entities.LoginAuditEntry) bool

	Ping(ctx context.Context) error
}
