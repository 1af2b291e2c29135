package parser

import (
	"regexp"

	"github.com/go-errors/errors"
)

// RegexParser extracts named capture groups from the first match of a pattern.
type RegexParser struct {
	name  string
	re    *regexp.Regexp
	names []string
}

// NewRegexParser compiles expr. Named groups become Result.Params keys.
func NewRegexParser(name, expr string) (*RegexParser, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compile %s: %w", name, err)
	}
	return &RegexParser{name: name, re: re, names: re.SubexpNames()}, nil
}

// MustRegexParser is like NewRegexParser but panics on a bad expression.
// It is meant for static tables.
func MustRegexParser(name, expr string) *RegexParser {
	p, err := NewRegexParser(name, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse applies the pattern to content.
func (p *RegexParser) Parse(content string) Result {
	m := p.re.FindStringSubmatch(content)
	if m == nil {
		return Result{}
	}
	params := make(map[string]string, len(p.names))
	for i, n := range p.names {
		if i == 0 || n == "" {
			continue
		}
		params[n] = m[i]
	}
	return Result{Matched: true, Pattern: p.name, Params: params}
}

// String returns the source expression.
func (p *RegexParser) String() string {
	return p.re.String()
}
