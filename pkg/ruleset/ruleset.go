package ruleset

import (
	"strings"
	"sync"

	"github.com/go-errors/errors"
	"github.com/strrl/combatlog/pkg/parser"
	"golang.org/x/text/cases"
)

// Extractor names a field extraction rule within a RuleSet.
type Extractor string

const (
	ActionRegex             Extractor = "ActionRegex"
	CastRegex               Extractor = "CastRegex"
	StartsUsingRegex        Extractor = "StartsUsingRegex"
	StartsUsingUnknownRegex Extractor = "StartsUsingUnknownRegex"
	HPRateRegex             Extractor = "HPRateRegex"
	AddedRegex              Extractor = "AddedRegex"
	EffectRegex             Extractor = "EffectRegex"
	MarkerRegex             Extractor = "MarkerRegex"
	MarkingRegex            Extractor = "MarkingRegex"
	CombatStartRegex        Extractor = "CombatStartRegex"
	CombatEndRegex          Extractor = "CombatEndRegex"
	DialogRegex             Extractor = "DialogRegex"
)

const (
	// ImportLog is the sentinel line replayed at the start of every import.
	ImportLog = "00:0000:import"
	// WipeoutLog is the sentinel a host emits when the party wipes.
	WipeoutLog = "00:0000:wipeout"
)

// AnalyzeKeyword maps a substring to a Category.
type AnalyzeKeyword struct {
	Keyword  string
	Category *Category
}

// RuleSet is a locale's ordered keyword list plus its extraction rules.
type RuleSet struct {
	Locale Locale
	// CombatStartNow is contained in the line that marks time zero.
	CombatStartNow string
	// NoticeFormat renders a draft timeline notice from a skill name.
	NoticeFormat string

	keywords   []AnalyzeKeyword
	folded     []string
	extractors map[Extractor]parser.Parser
}

func newRuleSet(locale Locale, startNow, notice string, keywords []AnalyzeKeyword, extractors map[Extractor]parser.Parser) *RuleSet {
	fold := cases.Fold()
	folded := make([]string, len(keywords))
	for i, k := range keywords {
		folded[i] = fold.String(k.Keyword)
	}
	return &RuleSet{
		Locale:         locale,
		CombatStartNow: startNow,
		NoticeFormat:   notice,
		keywords:       keywords,
		folded:         folded,
		extractors:     extractors,
	}
}

// Parser returns the extraction rule for name, or parser.Never.
func (r *RuleSet) Parser(name Extractor) parser.Parser {
	if p, ok := r.extractors[name]; ok {
		return p
	}
	return parser.Never
}

// Parse applies the extraction rule name to line.
func (r *RuleSet) Parse(name Extractor, line string) parser.Result {
	return r.Parser(name).Parse(line)
}

// Classify returns the Category of the first keyword contained in line,
// compared with Unicode case folding, or Unknown.
func (r *RuleSet) Classify(line string) *Category {
	return Classify(line, r)
}

// Classify returns the Category of the first keyword of rs contained in line.
func Classify(line string, rs *RuleSet) *Category {
	// cases.Caser is stateful, so one per call.
	folded := cases.Fold().String(line)
	for i, k := range rs.folded {
		if strings.Contains(folded, k) {
			return rs.keywords[i].Category
		}
	}
	return Unknown
}

var (
	registryOnce sync.Once
	registry     map[Locale]*RuleSet
)

func buildRegistry() {
	en := enRuleSet()
	ja := jaRuleSet()
	ko := koRuleSet()
	cn := cnRuleSet()
	registry = map[Locale]*RuleSet{
		JA: ja,
		EN: en,
		FR: en,
		DE: en,
		KO: ko,
		CN: cn,
		TW: cn,
	}
}

// Get returns the RuleSet for locale. Rule sets are built once and shared.
func Get(locale Locale) (*RuleSet, error) {
	registryOnce.Do(buildRegistry)
	rs, ok := registry[locale]
	if !ok {
		return nil, errors.Errorf("%q: %w", string(locale), ErrUnknownLocale)
	}
	return rs, nil
}

// MustGet is Get for locales known to exist.
func MustGet(locale Locale) *RuleSet {
	rs, err := Get(locale)
	if err != nil {
		panic(err)
	}
	return rs
}
