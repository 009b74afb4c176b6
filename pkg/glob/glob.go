// Package glob compiles POSIX-style path globs into anchored, slash-aware
// matchers. Supported syntax: "?" (one character, never '/'), "*" (a run of
// characters, never '/'), literal runs, and bracket expressions with "!"
// negation and POSIX named classes ("[[:digit:]]"). Collating symbols
// ("[.x.]") and equivalence classes ("[=x=]") are parsed but rejected.
// A compiled Pattern matches whole paths only; there is no substring mode.
package glob

import "regexp"

// Pattern is the compiled, immutable form of a glob. It is safe for
// concurrent use by multiple goroutines.
type Pattern struct {
	re     *regexp.Regexp
	source string
}

// Compile parses a glob pattern and builds its matcher. The whole input must
// form a valid pattern; otherwise a *SyntaxError or *UnsupportedError
// pinpointing the byte offset is returned. Following POSIX, a ']' directly
// after "[" or "[!" is a literal class member.
func Compile(pattern string) (*Pattern, error) {
	tokens, err := scan(pattern)
	if err != nil {
		return nil, err
	}

	re, err := translate(tokens)
	if err != nil {
		return nil, err
	}

	return &Pattern{source: pattern, re: re}, nil
}

// MustCompile is like Compile but panics on error. Intended for patterns
// known valid at build time, mirroring regexp.MustCompile.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}

	return p
}

// Matches reports whether the whole path matches the pattern.
func (p *Pattern) Matches(path string) bool {
	return p.re.MatchString(path)
}

// String returns the original glob source text.
func (p *Pattern) String() string {
	return p.source
}
