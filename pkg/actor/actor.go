package actor

import (
	"regexp"
	"strings"
	"sync"

	"github.com/strrl/combatlog/pkg/ruleset"
)

// pcNameRegex recognizes the "Forename Surname" shape of player names.
var pcNameRegex = regexp.MustCompile(`[a-zA-Z'\.]+ [a-zA-Z'\.]+`)

const (
	// SelfTag replaces the local player's name.
	SelfTag = "[mex]"
	// PCTag replaces a player name that is not in the roster.
	PCTag = "[pc]"
)

// Combatant is one party roster member with every name encoding the
// game client may print.
type Combatant struct {
	Name   string // Forename Surname
	NameFI string // Forename S.
	NameIF string // F. Surname
	NameII string // F. S.
	Job    string
	// IsPlayer marks the local player.
	IsPlayer bool
	IsPC     bool
}

// NewCombatant derives the abbreviated encodings from a full name.
func NewCombatant(name, job string, isPlayer bool) Combatant {
	c := Combatant{Name: name, Job: job, IsPlayer: isPlayer, IsPC: true}
	first, last, ok := strings.Cut(name, " ")
	if !ok || first == "" || last == "" {
		return c
	}
	fi := initial(first)
	li := initial(last)
	c.NameFI = first + " " + li
	c.NameIF = fi + " " + last
	c.NameII = fi + " " + li
	return c
}

func initial(s string) string {
	for _, r := range s {
		return string(r) + "."
	}
	return ""
}

func (c Combatant) matches(name string) bool {
	if name == "" {
		return false
	}
	return name == c.Name || name == c.NameFI || name == c.NameIF || name == c.NameII
}

func (c Combatant) names() []string {
	var out []string
	for _, n := range []string{c.Name, c.NameFI, c.NameIF, c.NameII} {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Roster supplies the current party.
type Roster interface {
	PartyRoster() []Combatant
}

// RosterFunc adapts a function to Roster.
type RosterFunc func() []Combatant

// PartyRoster calls f.
func (f RosterFunc) PartyRoster() []Combatant {
	return f()
}

// Filter decides which actors are stored and redacts player names.
// Roster lookups are cached until Reset.
type Filter struct {
	roster Roster
	locale ruleset.Locale

	mu      sync.Mutex
	members []Combatant
	names   map[string]struct{}
}

// NewFilter creates a Filter. A nil roster means an empty party.
func NewFilter(roster Roster, locale ruleset.Locale) *Filter {
	return &Filter{roster: roster, locale: locale}
}

// Reset drops cached roster lookups.
func (f *Filter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members = nil
	f.names = nil
}

func (f *Filter) load() {
	if f.names != nil {
		return
	}
	f.names = make(map[string]struct{})
	if f.roster == nil {
		return
	}
	f.members = f.roster.PartyRoster()
	for _, c := range f.members {
		for _, n := range c.names() {
			f.names[n] = struct{}{}
		}
	}
}

// ShouldStore reports whether a record for actor should be kept.
func (f *Filter) ShouldStore(actor string) bool {
	if actor == "" {
		return true
	}

	f.mu.Lock()
	f.load()
	_, inParty := f.names[actor]
	f.mu.Unlock()

	if inParty {
		return false
	}
	if f.locale != ruleset.JA {
		return true
	}
	return !pcNameRegex.MatchString(actor)
}

// NameToJobTag returns the bracketed job of a roster member, SelfTag for the
// local player, PCTag for other player shaped names, or name unchanged.
func (f *Filter) NameToJobTag(name string) string {
	f.mu.Lock()
	f.load()
	members := f.members
	f.mu.Unlock()

	for _, c := range members {
		if !c.IsPC || !c.matches(name) {
			continue
		}
		if c.IsPlayer {
			return SelfTag
		}
		return "[" + c.Job + "]"
	}
	if pcNameRegex.MatchString(name) {
		return PCTag
	}
	return name
}
