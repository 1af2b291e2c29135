package ruleset

import (
	"strings"

	"github.com/go-errors/errors"
)

// Locale is a game client language.
type Locale string

const (
	JA Locale = "ja"
	EN Locale = "en"
	FR Locale = "fr"
	DE Locale = "de"
	KO Locale = "ko"
	CN Locale = "cn"
	TW Locale = "tw"
)

// ErrUnknownLocale is returned for a locale with no rule set.
var ErrUnknownLocale = errors.New("unknown locale")

// ParseLocale accepts a locale code case-insensitively.
func ParseLocale(s string) (Locale, error) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case JA, EN, FR, DE, KO, CN, TW:
		return l, nil
	case "zh":
		return CN, nil
	}
	return "", errors.Errorf("%q: %w", s, ErrUnknownLocale)
}
