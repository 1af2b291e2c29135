package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session describes one archived combat session.
type Session struct {
	ID         uuid.UUID
	Zone       string
	Locale     string
	StartedAt  time.Time
	EndedAt    time.Time
	Imported   bool
	EntryCount int
}

// QueryOpts specifies filters for querying archived entries.
type QueryOpts struct {
	SessionID uuid.UUID
	// LogType matches LogType.String(); empty matches all.
	LogType string
	Actor   string
	From    time.Time
	To      time.Time
	Limit   int
}

// Archive persists finished sessions.
type Archive interface {
	// Init creates tables if they don't exist.
	Init(ctx context.Context) error
	// SaveSession stores a session and its entries in one transaction.
	SaveSession(ctx context.Context, session Session, entries []*Entry) error
	// Sessions returns all sessions, newest first.
	Sessions(ctx context.Context) ([]Session, error)
	// QueryEntries returns entries matching the given options.
	QueryEntries(ctx context.Context, opts QueryOpts) ([]Entry, error)
	// Close releases resources.
	Close() error
}

// NewSession describes entries as a session with a fresh ID.
func NewSession(entries []*Entry, locale string, imported bool) Session {
	s := Session{
		ID:         uuid.New(),
		Locale:     locale,
		Imported:   imported,
		EntryCount: len(entries),
		Zone:       UnknownZone,
	}
	if len(entries) == 0 {
		return s
	}
	s.Zone = entries[0].Zone
	s.StartedAt = entries[0].Timestamp
	s.EndedAt = entries[len(entries)-1].Timestamp
	return s
}
