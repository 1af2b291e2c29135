package ingestor

import (
	"regexp"
	"strings"
	"time"
)

var damageLogRegex = regexp.MustCompile(`(?i)^00:..(29|a9|2d|ad):`)

// Sanitizer drops uninteresting lines and strips client artifacts from the rest.
type Sanitizer struct {
	ignore  []string
	noise   func(string) bool
	worldRe *regexp.Regexp
}

// NewSanitizer builds a Sanitizer. noise may be nil; worlds lists server names
// that the client appends to player names.
func NewSanitizer(ignoreKeywords, worlds []string, noise func(string) bool) *Sanitizer {
	s := &Sanitizer{noise: noise}
	for _, k := range ignoreKeywords {
		if k != "" {
			s.ignore = append(s.ignore, k)
		}
	}
	var quoted []string
	for _, w := range worlds {
		if w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	if len(quoted) > 0 {
		s.worldRe = regexp.MustCompile(`(?P<name>[A-Za-z'\-\.]+ [A-Za-z'\-\.]+)(` + strings.Join(quoted, "|") + `)`)
	}
	return s
}

// Clean returns the cleaned line and whether it should be analyzed.
func (s *Sanitizer) Clean(raw string) (string, bool) {
	for _, k := range s.ignore {
		if strings.Contains(raw, k) {
			return "", false
		}
	}
	if s.noise != nil && s.noise(raw) {
		return "", false
	}

	prefix, body := splitTimestamp(raw)
	if IsDamageLog(body) {
		return "", false
	}
	body = RemoveTooltipSymbols(body)
	if s.worldRe != nil {
		body = s.worldRe.ReplaceAllString(body, "${name}")
	}
	return prefix + body, true
}

// IsDamageLog reports whether a chat line is a damage or heal notification.
func IsDamageLog(body string) bool {
	return strings.HasPrefix(body, "00:") && damageLogRegex.MatchString(body)
}

// RemoveTooltipSymbols strips private use glyphs from a chat line and trims
// the message text.
func RemoveTooltipSymbols(body string) string {
	if !strings.HasPrefix(body, "00:") {
		return body
	}
	body = strings.Map(func(r rune) rune {
		if r >= 0xE000 && r <= 0xEFFF {
			return -1
		}
		return r
	}, body)
	i := strings.LastIndex(body, ":")
	return body[:i+1] + strings.TrimSpace(body[i+1:])
}

const timestampPrefixLen = 15

func splitTimestamp(raw string) (string, string) {
	if len(raw) >= timestampPrefixLen && raw[0] == '[' && raw[13] == ']' && raw[14] == ' ' {
		return raw[:timestampPrefixLen], raw[timestampPrefixLen:]
	}
	return "", raw
}

// ClockLayout is the layout of the bracketed time of day prefix.
const ClockLayout = "15:04:05.000"

// ParseClock reads the "[hh:mm:ss.fff]" prefix of raw and places it on day.
func ParseClock(raw string, day time.Time) (time.Time, bool) {
	if len(raw) < 14 {
		return time.Time{}, false
	}
	clock, err := time.Parse(ClockLayout, strings.Trim(raw[:14], "[]"))
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), day.Location()), true
}

// FormatLine prefixes body with "[hh:mm:ss.fff] ".
func FormatLine(t time.Time, body string) string {
	return "[" + t.Format(ClockLayout) + "] " + body
}
