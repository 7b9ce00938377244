package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/benedevries-code/lea-kalender/internal/domain/entities"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/config"
	"github.com/benedevries-code/lea-kalender/internal/infrastructure/logger"
	"github.com/benedevries-code/lea-kalender/internal/ports"
)

// CalendarService implements every transform over the shared record.
// Each mutation loads the freshest copy, replaces exactly one field and
// writes the whole record back; the mutex serializes the three steps so
// concurrent API calls cannot clobber each other's fields in-process.
type CalendarService struct {
	repo   ports.CalendarRepository
	cfg    config.CalendarConfig
	logger *logger.Logger
	mu     sync.Mutex
	now    func() time.Time
}

// NewCalendarService creates a new calendar service.
func NewCalendarService(repo ports.CalendarRepository, cfg config.CalendarConfig, log *logger.Logger) *CalendarService {
	return &CalendarService{
		repo:   repo,
		cfg:    cfg,
		logger: log.WithComponent("calendar"),
		now:    time.Now,
	}
}

// GetRecord returns the current record with the retention filter applied.
// When the filter pruned anything the pruned record is written back, a
// cooperative garbage collection triggered by whoever loads next.
func (s *CalendarService) GetRecord(ctx context.Context) *entities.CalendarRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.repo.LoadRecord(ctx)
	if pruned := s.applyRetention(record); pruned > 0 {
		if s.repo.SaveRecord(ctx, record) {
			s.logger.Info("Pruned expired calendar entries", "count", pruned)
		}
	}
	return record
}

// ReplaceRecord overwrites the whole stored blob. Last write wins.
func (s *CalendarService) ReplaceRecord(ctx context.Context, record *entities.CalendarRecord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.Normalize()
	return s.repo.SaveRecord(ctx, record)
}

// ToggleDate adds the date to the coverage set if absent, removes it if
// present, and keeps the set sorted ascending.
func (s *CalendarService) ToggleDate(ctx context.Context, date string) (*entities.CalendarRecord, error) {
	if _, err := time.Parse(entities.DateFormat, date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.repo.LoadRecord(ctx)

	dates := make([]string, 0, len(record.Dates)+1)
	found := false
	for _, d := range record.Dates {
		if d == date {
			found = true
			continue
		}
		dates = append(dates, d)
	}
	if !found {
		dates = append(dates, date)
		// lexicographic sort is chronological for zero-padded ISO dates
		sort.Strings(dates)
	}
	record.Dates = dates

	if !s.repo.SaveRecord(ctx, record) {
		return nil, entities.ErrStoreUnavailable
	}
	return record, nil
}

// UpsertLeaRequest replaces any existing request for the same date and
// appends the new one. At most one active request per date.
func (s *CalendarService) UpsertLeaRequest(ctx context.Context, request entities.LeaRequest) (*entities.CalendarRecord, error) {
	if _, err := time.Parse(entities.DateFormat, request.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", request.Date, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.repo.LoadRecord(ctx)

	requests := make([]entities.LeaRequest, 0, len(record.LeaRequests)+1)
	for _, r := range record.LeaRequests {
		if r.Date != request.Date {
			requests = append(requests, r)
		}
	}
	record.LeaRequests = append(requests, request)

	if !s.repo.SaveRecord(ctx, record) {
		return nil, entities.ErrStoreUnavailable
	}
	return record, nil
}

// AddBetreuungEntry appends unconditionally; duplicates by date are
// permitted and all retained.
func (s *CalendarService) AddBetreuungEntry(ctx context.Context, entry entities.BetreuungEntry) (*entities.CalendarRecord, error) {
	if _, err := time.Parse(entities.DateFormat, entry.Date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", entry.Date, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.repo.LoadRecord(ctx)
	record.BetreuungEntries = append(record.BetreuungEntries, entry)

	if !s.repo.SaveRecord(ctx, record) {
		return nil, entities.ErrStoreUnavailable
	}
	return record, nil
}

// AddParticipant appends one availability submission.
func (s *CalendarService) AddParticipant(ctx context.Context, submission ports.ParticipantSubmission) (*entities.CalendarRecord, error) {
	for _, slot := range submission.AvailableSlots {
		if _, err := time.Parse(entities.DateFormat, slot.Date); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", slot.Date, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.repo.LoadRecord(ctx)
	record.Participants = append(record.Participants, entities.Participant{
		ID:             uuid.NewString(),
		Name:           submission.Name,
		AvailableSlots: submission.AvailableSlots,
		CreatedAt:      s.now().Format(time.RFC3339),
	})

	if !s.repo.SaveRecord(ctx, record) {
		return nil, entities.ErrStoreUnavailable
	}
	return record, nil
}

// ClaimHelper assigns the acting helper to an open request. First claim
// wins: claiming a request held by someone else is a no-op, claiming
// one's own claim again releases it.
func (s *CalendarService) ClaimHelper(ctx context.Context, date, helper string) (*entities.CalendarRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.repo.LoadRecord(ctx)

	request, ok := record.RequestFor(date)
	if !ok {
		return nil, entities.ErrRequestNotFound
	}

	switch request.Helper {
	case "":
		request.Helper = helper
	case helper:
		request.Helper = ""
	default:
		// already claimed by someone else, leave it alone
		return record, nil
	}

	if !s.repo.SaveRecord(ctx, record) {
		return nil, entities.ErrStoreUnavailable
	}
	s.logger.LogUserAction(helper, "claim_toggle", map[string]interface{}{"date": date, "helper": request.Helper})
	return record, nil
}

// Reset replaces the record with the empty shape.
func (s *CalendarService) Reset(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.SaveRecord(ctx, entities.EmptyCalendarRecord())
}

// Cleanup removes a person's betreuung entries and clears their helper
// claims. The match is case-insensitive substring, as the maintenance op
// has always worked.
func (s *CalendarService) Cleanup(ctx context.Context, name string) (*ports.CleanupResult, error) {
	if name == "" {
		name = s.cfg.CleanupName
	}
	needle := strings.ToLower(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.repo.LoadRecord(ctx)
	result := &ports.CleanupResult{}

	entries := make([]entities.BetreuungEntry, 0, len(record.BetreuungEntries))
	for _, e := range record.BetreuungEntries {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			result.DeletedBetreuung++
			continue
		}
		entries = append(entries, e)
	}
	record.BetreuungEntries = entries

	for i := range record.LeaRequests {
		if record.LeaRequests[i].Helper != "" && strings.Contains(strings.ToLower(record.LeaRequests[i].Helper), needle) {
			record.LeaRequests[i].Helper = ""
			result.ClearedLeaHelpers++
		}
	}

	if !s.repo.SaveRecord(ctx, record) {
		return nil, entities.ErrStoreUnavailable
	}

	s.logger.Info("Cleanup finished", "name", name, "deleted_betreuung", result.DeletedBetreuung, "cleared_helpers", result.ClearedLeaHelpers)
	return result, nil
}

// applyRetention drops every date-bearing entry older than the retention
// window and reports how many entries were removed. The boundary is
// inclusive: an entry dated exactly one month ago stays.
func (s *CalendarService) applyRetention(record *entities.CalendarRecord) int {
	months := s.cfg.RetentionMonths
	if months < 1 {
		months = 1
	}
	cutoff := s.now().AddDate(0, -months, 0)
	cutoffDay := time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)

	keep := func(date string) bool {
		parsed, err := time.Parse(entities.DateFormat, date)
		if err != nil {
			// malformed dates are never pruned
			return true
		}
		return !parsed.Before(cutoffDay)
	}

	pruned := 0

	dates := record.Dates[:0]
	for _, d := range record.Dates {
		if keep(d) {
			dates = append(dates, d)
		} else {
			pruned++
		}
	}
	record.Dates = dates

	requests := record.LeaRequests[:0]
	for _, r := range record.LeaRequests {
		if keep(r.Date) {
			requests = append(requests, r)
		} else {
			pruned++
		}
	}
	record.LeaRequests = requests

	entries := record.BetreuungEntries[:0]
	for _, e := range record.BetreuungEntries {
		if keep(e.Date) {
			entries = append(entries, e)
		} else {
			pruned++
		}
	}
	record.BetreuungEntries = entries

	return pruned
}
