// Package session turns classified lines into stored combat log entries.
package session

import (
	"github.com/rs/zerolog"
	"github.com/strrl/combatlog/pkg/actor"
	"github.com/strrl/combatlog/pkg/ingestor"
	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/strrl/combatlog/pkg/store"
)

// State is the combat state of a Machine.
type State int

const (
	Idle State = iota
	InCombat
)

func (s State) String() string {
	if s == InCombat {
		return "InCombat"
	}
	return "Idle"
}

// Listener receives combat boundary signals. Calls happen on the goroutine
// that feeds the Machine.
type Listener interface {
	// CombatStarted fires on every transition into InCombat.
	CombatStarted()
	// CombatEnded fires after the CombatEnd record is stored.
	// importing is true while an import is replaying.
	CombatEnded(importing bool)
}

// Machine is the Idle/InCombat automaton. It is not safe for concurrent use;
// callers serialize Feed, Reset and the import toggles.
type Machine struct {
	rules    *ruleset.RuleSet
	store    *store.Memory
	actors   *actor.Filter
	listener Listener
	log      zerolog.Logger

	state     State
	importing bool
}

// Config configures a Machine.
type Config struct {
	Rules    *ruleset.RuleSet
	Store    *store.Memory
	Actors   *actor.Filter
	Listener Listener
	Logger   zerolog.Logger
}

// New creates a Machine in Idle.
func New(cfg Config) *Machine {
	actors := cfg.Actors
	if actors == nil {
		actors = actor.NewFilter(nil, cfg.Rules.Locale)
	}
	return &Machine{
		rules:    cfg.Rules,
		store:    cfg.Store,
		actors:   actors,
		listener: cfg.Listener,
		log:      cfg.Logger,
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Importing reports whether an import is replaying.
func (m *Machine) Importing() bool {
	return m.importing
}

// SetImporting toggles import mode. While importing, Start does not clear the store.
func (m *Machine) SetImporting(importing bool) {
	m.importing = importing
}

// Reset returns to Idle without touching the store.
func (m *Machine) Reset() {
	m.state = Idle
}

// ResetSession clears the store, the HP cache and roster lookups and
// restarts the sequence counter.
func (m *Machine) ResetSession() {
	m.store.Clear()
	m.store.ResetSequence()
	m.actors.Reset()
}

// Feed classifies line and dispatches it.
func (m *Machine) Feed(line ingestor.Line) {
	cat := m.rules.Classify(line.Raw)
	if m.state == Idle && cat != ruleset.Start {
		return
	}
	cat.Accept(&dispatch{m: m, line: line})
}

func (m *Machine) startCombat(line ingestor.Line) {
	if m.state == Idle {
		if !m.importing {
			m.ResetSession()
		}
		if m.listener != nil {
			m.listener.CombatStarted()
		}
	}
	m.state = InCombat
	m.log.Debug().Str("raw", line.Raw).Bool("importing", m.importing).Msg("combat started")
	m.storeBoundary(line, ruleset.CombatStartRegex, store.CombatStart, "CombatStart")
}

func (m *Machine) endCombat(line ingestor.Line) {
	if m.state != InCombat {
		return
	}
	m.state = Idle
	m.storeBoundary(line, ruleset.CombatEndRegex, store.CombatEnd, "CombatEnd")
	m.log.Debug().Str("raw", line.Raw).Int("entries", m.store.Len()).Msg("combat ended")
	if m.listener != nil {
		m.listener.CombatEnded(m.importing)
	}
}
