package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/database"
	"github.com/benedevries-code/lea-kalender/internal/ports"
)

// PostgresStore keeps the same whole-blob contract as the Redis store,
// with one row per key in the kv_blobs table.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore wraps an already-open connection.
func NewPostgresStore(db *database.DB) ports.KeyValueStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_blobs WHERE key = $1`

	var value []byte
	err := s.db.DB.GetContext(ctx, &value, query, key)
	if err == sql.ErrNoRows {
		return nil, entities.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_blobs (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := s.db.DB.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set blob %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.DB.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Name() string {
	return "postgres"
}
