package store

import "time"

// LogType classifies a stored Entry.
type LogType int

const (
	Unknown LogType = iota
	CombatStart
	CombatEnd
	CastStart
	Action
	Effect
	Marker
	Added
	HPRate
	Dialog
)

var logTypeNames = [...]string{
	Unknown:     "Unknown",
	CombatStart: "CombatStart",
	CombatEnd:   "CombatEnd",
	CastStart:   "CastStart",
	Action:      "Action",
	Effect:      "Effect",
	Marker:      "Marker",
	Added:       "Added",
	HPRate:      "HPRate",
	Dialog:      "Dialog",
}

// logTypeTexts are the display names written to spreadsheets.
var logTypeTexts = [...]string{
	Unknown:     "UNKNOWN",
	CombatStart: "Combat Start",
	CombatEnd:   "Combat End",
	CastStart:   "Starts Using",
	Action:      "Action",
	Effect:      "Effect",
	Marker:      "Marker",
	Added:       "Added",
	HPRate:      "HP Rate",
	Dialog:      "Dialog",
}

func (t LogType) String() string {
	if t < 0 || int(t) >= len(logTypeNames) {
		return logTypeNames[Unknown]
	}
	return logTypeNames[t]
}

// Text returns the human readable name.
func (t LogType) Text() string {
	if t < 0 || int(t) >= len(logTypeTexts) {
		return logTypeTexts[Unknown]
	}
	return logTypeTexts[t]
}

// ParseLogType is the inverse of LogType.String.
func ParseLogType(s string) (LogType, bool) {
	for i, n := range logTypeNames {
		if n == s {
			return LogType(i), true
		}
	}
	return Unknown, false
}

// Entry is one classified and stored combat log event.
type Entry struct {
	ID        int64
	No        int64
	Timestamp time.Time
	// Elapsed is Timestamp minus the origin's Timestamp. Zero when unset.
	Elapsed     time.Duration
	Raw         string
	Actor       string
	Activity    string
	Skill       string
	Text        string
	SyncKeyword string
	LogType     LogType
	// HPRate is the last known HP fraction of Actor, 0 if unknown.
	HPRate   float64
	Zone     string
	IsOrigin bool
}

// timestampPrefixLen is the length of "[hh:mm:ss.fff] ".
const timestampPrefixLen = 15

// RawWithoutTimestamp strips a leading "[hh:mm:ss.fff] " from Raw.
func (e *Entry) RawWithoutTimestamp() string {
	return StripTimestamp(e.Raw)
}

// StripTimestamp strips a leading "[hh:mm:ss.fff] " from line.
func StripTimestamp(line string) string {
	if len(line) >= timestampPrefixLen && line[0] == '[' && line[13] == ']' && line[14] == ' ' {
		return line[timestampPrefixLen:]
	}
	return line
}

// Clone returns a copy of e.
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}
