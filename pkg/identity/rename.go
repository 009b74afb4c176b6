package identity

import "strings"

// Rename applies rules in declaration order and returns the resulting
// identity. The input value is never modified and the same inputs always
// produce the same output.
//
// Exact and fold styles overwrite destination fields with their literal
// replacements when the source field equals Match. Regex style builds a
// new identity: each destination field becomes the regex replacement of
// the pre-rule source field, and fields without a destination keep their
// pre-rule value.
func Rename(id Identity, rules []RenameRule) Identity {
	for i := range rules {
		id = rules[i].apply(id)
	}

	return id
}

// apply evaluates one rule against the current identity.
func (r *RenameRule) apply(id Identity) Identity {
	source := id.field(r.Field)

	switch r.Style {
	case StyleExact:
		if source != r.Match {
			return id
		}
	case StyleFold:
		if !strings.EqualFold(source, r.Match) {
			return id
		}
	case StyleRegex:
		re := r.pattern()
		if !re.MatchString(source) {
			return id
		}

		// Destinations are computed from the pre-rule source value, so a
		// destination overwriting the source field cannot feed the next one.
		next := id
		for _, dest := range r.Destinations {
			next = next.withField(dest.Field, re.ReplaceAllString(source, dest.Replacement))
		}

		return next
	}

	for _, dest := range r.Destinations {
		id = id.withField(dest.Field, dest.Replacement)
	}

	return id
}
