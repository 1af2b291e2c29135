package store

import (
	"strings"
	"sync"
	"time"

	"github.com/strrl/combatlog/pkg/ruleset"
)

const (
	// UnknownZone is stamped when no zone is known.
	UnknownZone = "UNKNOWN"
	// OriginWindow bounds the elapsed time computed against an origin.
	OriginWindow = 60 * time.Minute
)

// Memory is the in-process combat log. One lock covers entries, counters
// and the HP rate cache.
type Memory struct {
	mu      sync.Mutex
	entries []*Entry
	nextID  int64
	nextNo  int64
	hpRates map[string]float64
	zone    func() string
}

// NewMemory creates an empty store. zone supplies the current zone name and
// may be nil.
func NewMemory(zone func() string) *Memory {
	return &Memory{
		nextID:  1,
		nextNo:  1,
		hpRates: make(map[string]float64),
		zone:    zone,
	}
}

// Store assigns ID, No, Elapsed, HPRate, Zone and IsOrigin to e and appends it.
func (m *Memory) Store(e *Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.nextID
	m.nextID++
	e.No = m.nextNo
	m.nextNo++

	if origin := m.origin(); origin != nil {
		if d := e.Timestamp.Sub(origin.Timestamp); within(d) {
			e.Elapsed = d
		}
	}

	e.HPRate = m.hpRates[e.Actor]

	if len(m.entries) == 0 && !strings.Contains(e.Raw, ruleset.ImportLog) {
		e.IsOrigin = true
	}

	if e.Zone == "" && m.zone != nil {
		e.Zone = m.zone()
	}
	if e.Zone == "" {
		e.Zone = UnknownZone
	}

	m.entries = append(m.entries, e)
}

func (m *Memory) origin() *Entry {
	for _, e := range m.entries {
		if e.IsOrigin {
			return e
		}
	}
	return nil
}

func within(d time.Duration) bool {
	return d >= -OriginWindow && d <= OriginWindow
}

// SetOrigin makes origin the only origin in records and recomputes Elapsed
// for every record.
func SetOrigin(records []*Entry, origin *Entry) {
	if origin == nil {
		return
	}
	for _, e := range records {
		e.IsOrigin = false
		e.Elapsed = 0
		if d := e.Timestamp.Sub(origin.Timestamp); within(d) {
			e.Elapsed = d
		}
	}
	origin.IsOrigin = true
}

// SetOriginWhere sets the origin to the first entry matching fn.
// It reports whether one was found.
func (m *Memory) SetOriginWhere(fn func(*Entry) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if fn(e) {
			SetOrigin(m.entries, e)
			return true
		}
	}
	return false
}

// Snapshot returns copies of the stored entries in order.
func (m *Memory) Snapshot() []*Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear drops all entries and cached HP rates. IDs keep increasing.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	m.hpRates = make(map[string]float64)
}

// ResetSequence restarts No at 1.
func (m *Memory) ResetSequence() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextNo = 1
}

// SetHPRate caches the HP fraction of actor.
func (m *Memory) SetHPRate(actor string, rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hpRates[actor] = rate
}

// HPRate returns the cached HP fraction of actor, or 0.
func (m *Memory) HPRate(actor string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hpRates[actor]
}
