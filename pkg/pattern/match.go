package pattern

import (
	"strings"

	"github.com/strrl/combatlog/pkg/parser"
	"github.com/strrl/combatlog/pkg/store"
)

const wildcard = "<*>"

var extraDelimiters = []string{":", "=", ","}

// tokenize splits s the way Drain does: extra delimiters become spaces,
// then split on spaces.
func tokenize(s string) []string {
	for _, d := range extraDelimiters {
		s = strings.ReplaceAll(s, d, " ")
	}
	return strings.Fields(s)
}

// Match returns the first cluster whose template matches line token by token.
func Match(line string, clusters []Cluster) (Cluster, bool) {
	tokens := tokenize(store.StripTimestamp(line))
	for _, c := range clusters {
		if matchTokens(tokens, tokenize(c.Template)) {
			return c, true
		}
	}
	return Cluster{}, false
}

func matchTokens(line, template []string) bool {
	if len(line) != len(template) {
		return false
	}
	for i, t := range template {
		if t != wildcard && t != line[i] {
			return false
		}
	}
	return true
}

// Parser returns a parser.Parser that reports the matching cluster.
func Parser(clusters []Cluster) parser.Parser {
	return parser.Func(func(content string) parser.Result {
		c, ok := Match(content, clusters)
		if !ok {
			return parser.Result{}
		}
		return parser.Result{
			Matched: true,
			Pattern: c.Template,
			Params:  map[string]string{"cluster": c.ID.String()},
		}
	})
}
