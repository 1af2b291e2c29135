package parser

import (
	"strings"
	"testing"
)

func TestChainParser_FirstMatchWins(t *testing.T) {
	cast := MustRegexParser("cast", `\[.+?\] 00:....:(?P<actor>.+?) (readies|begins casting) (?P<skill>.+?)\.$`)
	startsUsing := MustRegexParser("starts-using", `14:....:(?P<actor>.+?) starts using (?P<skill>.+?) on (?P<target>.+?)\.$`)
	chain := NewChainParser(cast, startsUsing)

	result := chain.Parse("[12:00:00.000] 00:002b:Titan readies Landslide.")
	if !result.Matched {
		t.Fatal("expected chain to match cast line")
	}
	if result.Pattern != "cast" {
		t.Errorf("expected cast pattern, got %q", result.Pattern)
	}
	if result.Get("skill") != "Landslide" {
		t.Errorf("expected skill Landslide, got %q", result.Get("skill"))
	}

	result = chain.Parse("14:4E2B:Alice starts using Meteor on Unknown.")
	if !result.Matched {
		t.Fatal("expected chain to fall through to starts-using")
	}
	if result.Pattern != "starts-using" {
		t.Errorf("expected starts-using pattern, got %q", result.Pattern)
	}
	if result.Get("actor") != "Alice" || result.Get("skill") != "Meteor" {
		t.Errorf("unexpected params: %v", result.Params)
	}
}

func TestChainParser_NoMatch(t *testing.T) {
	chain := NewChainParser(Never)
	result := chain.Parse("anything")
	if result.Matched {
		t.Error("expected no match from Never parser")
	}
	if result.Get("actor") != "" {
		t.Error("expected empty field from unmatched result")
	}
}

func TestChainParser_HandWritten(t *testing.T) {
	// A hand-written parser substitutes for a regex without changing callers.
	hp := Func(func(content string) Result {
		actor, rest, ok := strings.Cut(content, " HP at ")
		if !ok {
			return Result{}
		}
		return Result{
			Matched: true,
			Pattern: "hp",
			Params:  map[string]string{"actor": actor, "hprate": strings.TrimSuffix(rest, "%")},
		}
	})
	chain := NewChainParser(MustRegexParser("never", `^$`), hp)

	result := chain.Parse("Titan HP at 42%")
	if !result.Matched {
		t.Fatal("expected hand-written parser to match")
	}
	if result.Get("actor") != "Titan" || result.Get("hprate") != "42" {
		t.Errorf("unexpected params: %v", result.Params)
	}
}
