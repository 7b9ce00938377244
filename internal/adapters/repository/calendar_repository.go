package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/config"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/logger"
	"github.com/benedevries-code/lea-kalender/internal/ports"
)

// CalendarRepositoryImpl implements ports.CalendarRepository on top of a
// key-value store. Reads degrade to empty defaults so a missing or
// unreachable store never breaks the page; writes report success only.
type CalendarRepositoryImpl struct {
	store  ports.KeyValueStore
	keys   config.StorageKeys
	logger *logger.Logger
}

// NewCalendarRepository creates a calendar repository.
func NewCalendarRepository(store ports.KeyValueStore, keys config.StorageKeys, log *logger.Logger) ports.CalendarRepository {
	return &CalendarRepositoryImpl{
		store:  store,
		keys:   keys,
		logger: log.WithComponent("repository"),
	}
}

func (r *CalendarRepositoryImpl) LoadRecord(ctx context.Context) *entities.CalendarRecord {
	data, err := r.store.Get(ctx, r.keys.Record)
	if err != nil {
		if !errors.Is(err, entities.ErrKeyNotFound) {
			r.logger.Warn("Record load failed, serving empty default", "error", err)
		}
		return entities.EmptyCalendarRecord()
	}

	var record entities.CalendarRecord
	if err := json.Unmarshal(data, &record); err != nil {
		r.logger.Warn("Record blob is not valid JSON, serving empty default", "error", err)
		return entities.EmptyCalendarRecord()
	}

	record.Normalize()
	return &record
}

func (r *CalendarRepositoryImpl) SaveRecord(ctx context.Context, record *entities.CalendarRecord) bool {
	record.Normalize()

	data, err := json.Marshal(record)
	if err != nil {
		r.logger.Error("Record marshal failed", "error", err)
		return false
	}

	if err := r.store.Set(ctx, r.keys.Record, data); err != nil {
		r.logger.Error("Record save failed", "error", err)
		return false
	}
	return true
}

func (r *CalendarRepositoryImpl) LoadCredentials(ctx context.Context) entities.CredentialMap {
	data, err := r.store.Get(ctx, r.keys.Users)
	if err != nil {
		if !errors.Is(err, entities.ErrKeyNotFound) {
			r.logger.Warn("Credential load failed, serving empty map", "error", err)
		}
		return entities.CredentialMap{}
	}

	var users entities.CredentialMap
	if err := json.Unmarshal(data, &users); err != nil {
		r.logger.Warn("Credential blob is not valid JSON, serving empty map", "error", err)
		return entities.CredentialMap{}
	}
	if users == nil {
		users = entities.CredentialMap{}
	}
	return users
}

func (r *CalendarRepositoryImpl) SaveCredentials(ctx context.Context, users entities.CredentialMap) bool {
	data, err := json.Marshal(users)
	if err != nil {
		r.logger.Error("Credential marshal failed", "error", err)
		return false
	}

	if err := r.store.Set(ctx, r.keys.Users, data); err != nil {
		r.logger.Error("Credential save failed", "error", err)
		return false
	}
	return true
}

func (r *CalendarRepositoryImpl) LoadAuditLog(ctx context.Context) []entities.LoginAuditEntry {
	data, err := r.store.Get(ctx, r.keys.Logins)
	if err != nil {
		if !errors.Is(err, entities.ErrKeyNotFound) {
			r.logger.Warn("Audit log load failed, serving empty list", "error", err)
		}
		return []entities.LoginAuditEntry{}
	}

	var entries []entities.LoginAuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		r.logger.Warn("Audit log blob is not valid JSON, serving empty list", "error", err)
		return []entities.LoginAuditEntry{}
	}
	if entries == nil {
		entries = []entities.LoginAuditEntry{}
	}
	return entries
}

func (r *CalendarRepositoryImpl) SaveAuditLog(ctx context.Context, entries []entities.LoginAuditEntry) bool {
	data, err := json.Marshal(entries)
	if err != nil {
		r.logger.Error("Audit log marshal failed", "error", err)
		return false
	}

	if err := r.store.Set(ctx, r.keys.Logins, data); err != nil {
		r.logger.Error("Audit log save failed", "error", err)
		return false
	}
	return true
}

func (r *CalendarRepositoryImpl) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
