package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrKeyNotFound        = errors.New("key not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrPasswordAlreadySet = errors.New("password already set")
	ErrNoPasswordSet      = errors.New("no password set")
	ErrWrongPassword      = errors.New("wrong password")
	ErrRequestNotFound    = errors.New("no request for that date")
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// Transport describes how Bruno gets home after a covered day.
type Transport string

const (
	TransportAbholen Transport = "abholen" // requester picks up
	TransportBringen Transport = "bringen" // helper brings back
)

// AuditEventType classifies login audit entries.
type AuditEventType string

const (
	AuditEventLogin       AuditEventType = "login"
	AuditEventPasswordSet AuditEventType = "password_set"
)

// CareOptions are the coverage variants offered by the picker.
var CareOptions = []string{
	"Bruno Kita abholen",
	"Bruno zuhause abholen",
	"Bruno Kita abholen mit Übernachtung",
	"Bruno zuhause abholen mit Übernachtung",
	"Bruno Kita abholen und abends nach Hause bringen",
	"Bruno Kita abholen und abends abholen lassen",
	"Bruno Kita abholen mit mehreren Übernachtungen",
	"Bruno zuhause abholen mit mehreren Übernachtungen",
}

// LeaRequest is a help request for a single date. At most one active
// request exists per date; a newer submission replaces the older one.
type LeaRequest struct {
	Date      string    `json:"date"`
	HelpType  string    `json:"helpType,omitempty"`
	Message   string    `json:"message,omitempty"`
	TimeFrom  string    `json:"timeFrom,omitempty"`
	TimeTo    string    `json:"timeTo,omitempty"`
	Abholort  string    `json:"abholort,omitempty"`
	Transport Transport `json:"transport,omitempty"`
	Helper    string    `json:"helper,omitempty"`
}

// BetreuungEntry is a family-provided coverage offer. Multiple entries
// per date are allowed and all retained.
type BetreuungEntry struct {
	Date      string    `json:"date"`
	TimeFrom  string    `json:"timeFrom,omitempty"`
	TimeTo    string    `json:"timeTo,omitempty"`
	Message   string    `json:"message,omitempty"`
	Abholort  string    `json:"abholort,omitempty"`
	Transport Transport `json:"transport,omitempty"`
	Name      string    `json:"name"`
}

// TimeSlot is a single date/option pick inside a participant submission.
type TimeSlot struct {
	Date   string `json:"date"`
	Option string `json:"option"`
}

// Participant is one availability submission (alternate schema variant).
// Submissions are additive and never replaced.
type Participant struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	AvailableSlots []TimeSlot `json:"availableSlots"`
	CreatedAt      string     `json:"createdAt"`
}

// CalendarRecord is the single persisted blob. It is read and rewritten
// wholesale on every change; every field tolerates being absent.
type CalendarRecord struct {
	Dates            []string         `json:"dates"`
	LeaRequests      []LeaRequest     `json:"leaRequests"`
	BetreuungEntries []BetreuungEntry `json:"betreuungEntries"`
	Participants     []Participant    `json:"participants,omitempty"`
}

// EmptyCalendarRecord returns the documented empty default shape.
func EmptyCalendarRecord() *CalendarRecord {
	return &CalendarRecord{
		Dates:            []string{},
		LeaRequests:      []LeaRequest{},
		BetreuungEntries: []BetreuungEntry{},
	}
}

// Normalize replaces nil collections with empty ones so the JSON shape
// stays stable across schema drift.
func (r *CalendarRecord) Normalize() {
	if r.Dates == nil {
		r.Dates = []string{}
	}
	if r.LeaRequests == nil {
		r.LeaRequests = []LeaRequest{}
	}
	if r.BetreuungEntries == nil {
		r.BetreuungEntries = []BetreuungEntry{}
	}
}

// RequestFor returns the help request for a date, if any.
func (r *CalendarRecord) RequestFor(date string) (*LeaRequest, bool) {
	for i := range r.LeaRequests {
		if r.LeaRequests[i].Date == date {
			return &r.LeaRequests[i], true
		}
	}
	return nil, false
}

// UserCredential maps one family member to their password record.
type UserCredential struct {
	Name      string    `json:"name"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// CredentialMap is the persisted credential store, keyed by user name.
type CredentialMap map[string]UserCredential

// LoginAuditEntry records one login or password-set event.
type LoginAuditEntry struct {
	Name      string         `json:"name"`
	Timestamp time.Time      `json:"timestamp"`
	Type      AuditEventType `json:"type"`
}

// DefaultAuditCapacity is the bound on the login audit log; on append
// beyond it the oldest entries are evicted first.
const DefaultAuditCapacity = 100
