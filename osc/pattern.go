package osc

import (
	"regexp"
	"strings"
)

// wildcards maps OSC address pattern syntax onto regular expression syntax.
// The replacement runs in a single pass, so no substitution sees the output of
// another one.
var wildcards = strings.NewReplacer(
	"!", "^", // negation, meaningful inside '[...]'
	"{", "(", // start of an alternative list
	"}", ")",
	",", "|",
	"*", ".*", // any run of characters
	"?", ".", // any single character
)

// translatePattern returns the regular expression for an OSC address pattern.
func translatePattern(pattern string) string {
	return wildcards.Replace(pattern)
}

// compilePattern compiles pattern into a regexp that only accepts complete
// addresses.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	expr := translatePattern(pattern)
	r, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Expr: expr, Err: err}
	}
	return r, nil
}

// Match reports whether the OSC address pattern of m matches addr in full.
// An invalid pattern matches nothing.
func (m *Message) Match(addr string) bool {
	r, err := compilePattern(m.Address)
	if err != nil {
		return false
	}
	return r.MatchString(addr)
}
