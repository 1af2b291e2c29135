package analyzer

import (
	"github.com/strrl/combatlog/pkg/actor"
	"github.com/strrl/combatlog/pkg/ingestor"
)

// Host is the application embedding the analyzer.
type Host interface {
	// CurrentZone returns the zone the player is in.
	CurrentZone() string
	// PartyRoster returns the current party.
	PartyRoster() []actor.Combatant
	// IgnoreKeywords lists substrings of lines to drop.
	IgnoreKeywords() []string
	// IsNoise reports whether a line matches the host's noise patterns.
	IsNoise(line string) bool
	// DumpPosition is signalled on every transition into combat.
	DumpPosition()
}

// Feed delivers lines as the host reads them.
type Feed interface {
	// Subscribe registers fn and returns a function that unregisters it.
	Subscribe(fn func(isImport bool, line ingestor.Line)) (unsubscribe func())
}

var _ Host = (*StaticHost)(nil)

// StaticHost is a Host backed by fixed values.
type StaticHost struct {
	Zone   string
	Party  []actor.Combatant
	Ignore []string
	Noise  func(line string) bool
	// OnDumpPosition is called for DumpPosition when set.
	OnDumpPosition func()
}

func (h *StaticHost) CurrentZone() string            { return h.Zone }
func (h *StaticHost) PartyRoster() []actor.Combatant { return h.Party }
func (h *StaticHost) IgnoreKeywords() []string       { return h.Ignore }

func (h *StaticHost) IsNoise(line string) bool {
	return h.Noise != nil && h.Noise(line)
}

func (h *StaticHost) DumpPosition() {
	if h.OnDumpPosition != nil {
		h.OnDumpPosition()
	}
}
