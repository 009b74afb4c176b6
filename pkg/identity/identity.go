// Package identity normalizes commit author signatures through an ordered
// list of rename rules. Rules are applied as a fold over an immutable
// Identity value: exact and case-folded rules overwrite destination fields
// when the source field equals the match string, regex rules derive a new
// identity from the pre-rule snapshot, so later rules observe only the
// cumulative result of earlier ones.
package identity

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrBadPattern reports a regex rule whose match expression does not compile.
var ErrBadPattern = errors.New("identity: bad match pattern")

// Field selects the identity field a rule reads from or writes to.
type Field int

const (
	// FieldName selects Identity.Name.
	FieldName Field = iota
	// FieldEmail selects Identity.Email.
	FieldEmail
)

// String returns the rule-file spelling of the field.
func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldEmail:
		return "email"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// Style selects how a rule's match expression is compared against the
// source field.
type Style int

const (
	// StyleExact compares byte for byte.
	StyleExact Style = iota
	// StyleFold compares under Unicode case folding.
	StyleFold
	// StyleRegex treats the match expression as a regular expression;
	// replacements may reference capture groups as $1, $2 and so on.
	StyleRegex
)

// String returns the rule-file spelling of the style.
func (s Style) String() string {
	switch s {
	case StyleExact:
		return "exact"
	case StyleFold:
		return "ifold"
	case StyleRegex:
		return "regex"
	default:
		return fmt.Sprintf("style(%d)", int(s))
	}
}

// Identity is one author signature as it appears in the log stream.
type Identity struct {
	Name  string
	Email string
}

// Destination is a single field assignment performed by a matching rule.
type Destination struct {
	Replacement string
	Field       Field
}

// RenameRule rewrites author identities. The rule reads Field of the
// identity under its Style and, on a match, assigns every destination.
type RenameRule struct {
	Match        string
	Destinations []Destination
	Style        Style
	Field        Field

	re *regexp.Regexp
}

// CompileRules validates rules and compiles regex match expressions in
// place. ParseRules runs it on everything it returns; rule lists built
// literally should pass through it before Rename.
func CompileRules(rules []RenameRule) error {
	for i := range rules {
		if err := rules[i].compile(); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
	}

	return nil
}

func (r *RenameRule) compile() error {
	if r.Style != StyleRegex {
		return nil
	}

	re, err := regexp.Compile(r.Match)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrBadPattern, r.Match, err)
	}

	r.re = re

	return nil
}

// pattern returns the compiled match expression, compiling on the spot for
// rules that skipped CompileRules. Invalid expressions panic here; rules
// from ParseRules are validated before they reach this point.
func (r *RenameRule) pattern() *regexp.Regexp {
	if r.re != nil {
		return r.re
	}

	return regexp.MustCompile(r.Match)
}

// field reads the selected field.
func (id Identity) field(f Field) string {
	if f == FieldEmail {
		return id.Email
	}

	return id.Name
}

// withField returns a copy with the selected field replaced.
func (id Identity) withField(f Field, value string) Identity {
	if f == FieldEmail {
		id.Email = value
	} else {
		id.Name = value
	}

	return id
}
