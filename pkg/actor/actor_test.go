package actor

import (
	"testing"

	"github.com/strrl/combatlog/pkg/ruleset"
	"github.com/stretchr/testify/assert"
)

func testRoster() Roster {
	return RosterFunc(func() []Combatant {
		return []Combatant{
			NewCombatant("Alice Liddell", "WHM", true),
			NewCombatant("Bob Smith", "WAR", false),
		}
	})
}

func TestNewCombatant_Encodings(t *testing.T) {
	c := NewCombatant("Bob Smith", "WAR", false)
	assert.Equal(t, "Bob S.", c.NameFI)
	assert.Equal(t, "B. Smith", c.NameIF)
	assert.Equal(t, "B. S.", c.NameII)
	assert.True(t, c.IsPC)
}

func TestShouldStore(t *testing.T) {
	f := NewFilter(testRoster(), ruleset.EN)

	assert.True(t, f.ShouldStore(""))
	assert.True(t, f.ShouldStore("Titan"))
	assert.False(t, f.ShouldStore("Bob Smith"))
	assert.False(t, f.ShouldStore("B. Smith"))
	assert.False(t, f.ShouldStore("Alice L."))
	// Outside the Japanese client a foreign looking name is still kept.
	assert.True(t, f.ShouldStore("Random Stranger"))
}

func TestShouldStore_JapaneseDropsWesternNames(t *testing.T) {
	f := NewFilter(nil, ruleset.JA)
	assert.False(t, f.ShouldStore("Random Stranger"))
	assert.True(t, f.ShouldStore("タイタン"))
}

func TestNameToJobTag(t *testing.T) {
	f := NewFilter(testRoster(), ruleset.EN)

	assert.Equal(t, SelfTag, f.NameToJobTag("Alice Liddell"))
	assert.Equal(t, "[WAR]", f.NameToJobTag("B. S."))
	assert.Equal(t, PCTag, f.NameToJobTag("Random Stranger"))
	assert.Equal(t, "Titan", f.NameToJobTag("Titan"))
}

func TestReset_ReloadsRoster(t *testing.T) {
	party := []Combatant{NewCombatant("Bob Smith", "WAR", false)}
	f := NewFilter(RosterFunc(func() []Combatant { return party }), ruleset.EN)

	assert.False(t, f.ShouldStore("Bob Smith"))

	party = []Combatant{NewCombatant("Carol Jones", "SCH", false)}
	// Cached until Reset.
	assert.False(t, f.ShouldStore("Bob Smith"))

	f.Reset()
	assert.True(t, f.ShouldStore("Bob Smith"))
	assert.False(t, f.ShouldStore("Carol Jones"))
}
