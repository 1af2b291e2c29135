package ingestor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizer_Drops(t *testing.T) {
	s := NewSanitizer([]string{"/echo"}, nil, func(raw string) bool {
		return strings.Contains(raw, "spam")
	})

	_, ok := s.Clean("[21:00:00.000] 00:0038:/echo hello")
	assert.False(t, ok, "ignore keyword")
	_, ok = s.Clean("[21:00:00.000] 00:0039:spam spam")
	assert.False(t, ok, "noise")
	_, ok = s.Clean("[21:00:00.000] 00:0aa9:Titan takes 1234 damage.")
	assert.False(t, ok, "damage")
	_, ok = s.Clean("[21:00:00.000] 00:0A2D:Bob recovers 100 HP.")
	assert.False(t, ok, "heal, upper case code")

	line, ok := s.Clean("[21:00:00.000] 00:0039:Engage!")
	assert.True(t, ok)
	assert.Equal(t, "[21:00:00.000] 00:0039:Engage!", line)
}

func TestSanitizer_StripsTooltipsAndWorlds(t *testing.T) {
	s := NewSanitizer(nil, []string{"Gilgamesh"}, nil)

	line, ok := s.Clean("[21:00:00.000] 00:0039:Bob SmithGilgamesh uses \ue0bbFire. ")
	require.True(t, ok)
	assert.Equal(t, "[21:00:00.000] 00:0039:Bob Smith uses Fire.", line)
}

func TestRemoveTooltipSymbols_NonChat(t *testing.T) {
	assert.Equal(t, "1A:\ue0bb", RemoveTooltipSymbols("1A:\ue0bb"))
}

func TestParseClock(t *testing.T) {
	day := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	got, ok := ParseClock("[21:03:04.567] 00:0039:Engage!", day)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 18, 21, 3, 4, 567_000_000, time.UTC), got)

	_, ok = ParseClock("short", day)
	assert.False(t, ok)
	_, ok = ParseClock("[xx:03:04.567] 00:0039:Engage!", day)
	assert.False(t, ok)

	assert.Equal(t, "[21:03:04.567] 00:0039:Engage!", FormatLine(got, "00:0039:Engage!"))
}
