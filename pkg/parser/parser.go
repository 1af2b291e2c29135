package parser

// Result holds the outcome of parsing a single log line.
type Result struct {
	Matched bool
	// Pattern names the rule that produced the match.
	Pattern string
	Params  map[string]string
}

// Get returns the named field, or "" when absent.
func (r Result) Get(name string) string {
	return r.Params[name]
}

// Parser extracts named fields from a raw log line.
// Implementations may be regex backed or hand written; callers only rely on
// Matched and the field names they document.
type Parser interface {
	Parse(content string) Result
}

// Func adapts a plain function to the Parser interface.
type Func func(content string) Result

// Parse calls f(content).
func (f Func) Parse(content string) Result {
	return f(content)
}

// Never is a Parser that matches nothing.
var Never Parser = Func(func(string) Result { return Result{} })
