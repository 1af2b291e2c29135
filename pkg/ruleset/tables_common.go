package ruleset

import "github.com/strrl/combatlog/pkg/parser"

const (
	addedExpr              = `:\[EX\] Added new combatant\. name=(?P<actor>.+?) X=`
	hpRateExpr             = `\[.+?\] ..:(?P<actor>.+?) HP at (?P<hprate>\d+?)%`
	startsUsingExpr        = `14:....:(?P<actor>.+?) starts using (?P<skill>.+?) on (?P<target>.+?)\.$`
	startsUsingUnknownExpr = `14:....:(?P<actor>.+?) starts using (?P<skill>.+?) on Unknown\.$`
	dialogExpr             = `00:(0044|0839):(?P<dialog>.+?)$`
	combatStartExpr        = `00:(0038|0039):(?P<description>.+?)$`
	combatEndExpr          = `00:....:(?P<description>.+?)$`
	effectExpr             = `1A:(?P<victim>.+?) gains the effect of (?P<effect>.+?) from (?P<actor>.+?) for (?P<duration>[0-9\.]*?) Seconds\.$`
	markerExpr             = `1B:(?P<id>.{8}):(?P<target>.+?):0000:....:(?P<type>....):0000:0000:0000:$`
)

var (
	recordKeywords = []AnalyzeKeyword{
		{"[EX] Added new combatant", Added},
		{"[EX] Added", Record},
		{"[EX] POS", Record},
		{"[EX] Beacon", Record},
	}
	effectKeywords = []AnalyzeKeyword{
		{"] 1A:", Effect},
	}
	hpRateKeywords = []AnalyzeKeyword{
		{"HP at", HPRate},
	}
	dialogueKeywords = []AnalyzeKeyword{
		{"00:0044:", Dialogue},
		{"00:0839:", Dialogue},
	}
)

func keywords(groups ...[]AnalyzeKeyword) []AnalyzeKeyword {
	var all []AnalyzeKeyword
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

func same(cat *Category, words ...string) []AnalyzeKeyword {
	out := make([]AnalyzeKeyword, len(words))
	for i, w := range words {
		out[i] = AnalyzeKeyword{Keyword: w, Category: cat}
	}
	return out
}

// extractors compiles the locale independent rules plus the given
// locale specific action, cast and marking expressions. CastRegex falls
// back to the "starts using" form.
func extractors(locale Locale, action, cast, marking string) map[Extractor]parser.Parser {
	name := func(e Extractor) string { return string(locale) + "." + string(e) }
	return map[Extractor]parser.Parser{
		ActionRegex:             parser.MustRegexParser(name(ActionRegex), action),
		CastRegex: parser.NewChainParser(
			parser.MustRegexParser(name(CastRegex), cast),
			parser.MustRegexParser(name(StartsUsingRegex), startsUsingExpr),
		),
		MarkingRegex:            parser.MustRegexParser(name(MarkingRegex), marking),
		AddedRegex:              parser.MustRegexParser(name(AddedRegex), addedExpr),
		HPRateRegex:             parser.MustRegexParser(name(HPRateRegex), hpRateExpr),
		StartsUsingRegex:        parser.MustRegexParser(name(StartsUsingRegex), startsUsingExpr),
		StartsUsingUnknownRegex: parser.MustRegexParser(name(StartsUsingUnknownRegex), startsUsingUnknownExpr),
		DialogRegex:             parser.MustRegexParser(name(DialogRegex), dialogExpr),
		CombatStartRegex:        parser.MustRegexParser(name(CombatStartRegex), combatStartExpr),
		CombatEndRegex:          parser.MustRegexParser(name(CombatEndRegex), combatEndExpr),
		EffectRegex:             parser.MustRegexParser(name(EffectRegex), effectExpr),
		MarkerRegex:             parser.MustRegexParser(name(MarkerRegex), markerExpr),
	}
}
