// Package audit provides the append-only exchange log that a council run
// accumulates. The log is an explicit value handed in by the caller, never
// ambient global state; the core appends entries and hands the log back, and
// the caller owns persistence.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryType labels what a log entry records.
type EntryType string

// Entry types written by the core.
const (
	EntryCouncilStart    EntryType = "COUNCIL_START"
	EntryAdvisorCall     EntryType = "ADVISOR_CALL"
	EntryAdvisorError    EntryType = "ADVISOR_ERROR"
	EntryCouncilComplete EntryType = "COUNCIL_COMPLETE"
	EntryCalibration     EntryType = "CALIBRATION"
)

// Entry is one appended exchange record.
type Entry struct {
	ID        uuid.UUID      `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Type      EntryType      `json:"type"`
	Persona   string         `json:"persona,omitempty"`
	Provider  string         `json:"provider,omitempty"`
	Detail    map[string]any `json:"detail,omitempty"`
}

// Log is a thread-safe append-only accumulator. The zero value is not usable;
// use NewLog. Advisor calls run concurrently and all append here.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLog creates an empty audit log.
func NewLog() *Log {
	return &Log{}
}

// Append adds an entry, stamping its ID and timestamp, and returns the ID so
// callers can carry it as a provenance reference.
func (l *Log) Append(entryType EntryType, persona, provider string, detail map[string]any) uuid.UUID {
	id := uuid.New()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Type:      entryType,
		Persona:   persona,
		Provider:  provider,
		Detail:    detail,
	})

	return id
}

// Entries returns a copy of everything appended so far, in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many entries have been appended.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
