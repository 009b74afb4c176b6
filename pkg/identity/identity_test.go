package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testName  = "Bob Smith"
	testEmail = "bob@x.com"
)

func TestRename_NoRules(t *testing.T) {
	t.Parallel()

	id := Identity{Name: testName, Email: testEmail}

	assert.Equal(t, id, Rename(id, nil))
}

func TestRename_ExactStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rule     RenameRule
		input    Identity
		expected Identity
	}{
		{
			name: "match_rewrites_destination",
			rule: RenameRule{
				Style: StyleExact, Field: FieldName, Match: testName,
				Destinations: []Destination{{Field: FieldName, Replacement: "Robert Smith"}},
			},
			input:    Identity{Name: testName, Email: testEmail},
			expected: Identity{Name: "Robert Smith", Email: testEmail},
		},
		{
			name: "mismatch_leaves_identity",
			rule: RenameRule{
				Style: StyleExact, Field: FieldName, Match: "Someone Else",
				Destinations: []Destination{{Field: FieldName, Replacement: "Robert Smith"}},
			},
			input:    Identity{Name: testName, Email: testEmail},
			expected: Identity{Name: testName, Email: testEmail},
		},
		{
			name: "case_difference_is_a_mismatch",
			rule: RenameRule{
				Style: StyleExact, Field: FieldName, Match: "bob smith",
				Destinations: []Destination{{Field: FieldName, Replacement: "Robert Smith"}},
			},
			input:    Identity{Name: testName, Email: testEmail},
			expected: Identity{Name: testName, Email: testEmail},
		},
		{
			name: "match_on_email_writes_both_fields",
			rule: RenameRule{
				Style: StyleExact, Field: FieldEmail, Match: testEmail,
				Destinations: []Destination{
					{Field: FieldName, Replacement: "Robert Smith"},
					{Field: FieldEmail, Replacement: "robert@x.com"},
				},
			},
			input:    Identity{Name: testName, Email: testEmail},
			expected: Identity{Name: "Robert Smith", Email: "robert@x.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Rename(tt.input, []RenameRule{tt.rule}))
		})
	}
}

func TestRename_FoldStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		match    string
		input    Identity
		expected Identity
	}{
		{
			name:     "folded_equality_matches",
			match:    "BOB SMITH",
			input:    Identity{Name: testName, Email: testEmail},
			expected: Identity{Name: "Robert Smith", Email: testEmail},
		},
		{
			name:     "distinct_names_do_not_match",
			match:    "bob smythe",
			input:    Identity{Name: testName, Email: testEmail},
			expected: Identity{Name: testName, Email: testEmail},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule := RenameRule{
				Style: StyleFold, Field: FieldName, Match: tt.match,
				Destinations: []Destination{{Field: FieldName, Replacement: "Robert Smith"}},
			}

			assert.Equal(t, tt.expected, Rename(tt.input, []RenameRule{rule}))
		})
	}
}

func TestRename_RegexStyle(t *testing.T) {
	t.Parallel()

	t.Run("email_rewrite", func(t *testing.T) {
		t.Parallel()

		rules := []RenameRule{{
			Style: StyleRegex, Field: FieldEmail, Match: `^bob@x\.com$`,
			Destinations: []Destination{{Field: FieldEmail, Replacement: "bob@y.com"}},
		}}
		require.NoError(t, CompileRules(rules))

		got := Rename(Identity{Name: testName, Email: testEmail}, rules)
		assert.Equal(t, Identity{Name: testName, Email: "bob@y.com"}, got)
	})

	t.Run("capture_groups", func(t *testing.T) {
		t.Parallel()

		rules := []RenameRule{{
			Style: StyleRegex, Field: FieldEmail, Match: `^([a-z]+)@x\.com$`,
			Destinations: []Destination{
				{Field: FieldEmail, Replacement: "$1@example.com"},
				{Field: FieldName, Replacement: "$1"},
			},
		}}
		require.NoError(t, CompileRules(rules))

		got := Rename(Identity{Name: testName, Email: testEmail}, rules)
		assert.Equal(t, Identity{Name: "bob", Email: "bob@example.com"}, got)
	})

	t.Run("destinations_read_the_pre_rule_snapshot", func(t *testing.T) {
		t.Parallel()

		// The first destination overwrites the source field; the second must
		// still see the original value.
		rules := []RenameRule{{
			Style: StyleRegex, Field: FieldEmail, Match: `bob`,
			Destinations: []Destination{
				{Field: FieldEmail, Replacement: "nobody"},
				{Field: FieldName, Replacement: "still-$0"},
			},
		}}
		require.NoError(t, CompileRules(rules))

		got := Rename(Identity{Name: testName, Email: testEmail}, rules)
		assert.Equal(t, "nobody@x.com", got.Email)
		assert.Equal(t, "still-bob@x.com", got.Name)
	})

	t.Run("unanchored_substring_match", func(t *testing.T) {
		t.Parallel()

		rules := []RenameRule{{
			Style: StyleRegex, Field: FieldEmail, Match: `@x\.com`,
			Destinations: []Destination{{Field: FieldEmail, Replacement: "@y.com"}},
		}}
		require.NoError(t, CompileRules(rules))

		got := Rename(Identity{Name: testName, Email: testEmail}, rules)
		assert.Equal(t, "bob@y.com", got.Email)
	})

	t.Run("no_match_leaves_identity", func(t *testing.T) {
		t.Parallel()

		rules := []RenameRule{{
			Style: StyleRegex, Field: FieldEmail, Match: `^alice@`,
			Destinations: []Destination{{Field: FieldEmail, Replacement: "nope"}},
		}}
		require.NoError(t, CompileRules(rules))

		id := Identity{Name: testName, Email: testEmail}
		assert.Equal(t, id, Rename(id, rules))
	})
}

func TestRename_RulesChain(t *testing.T) {
	t.Parallel()

	// Rule 1 normalizes the name, rule 2 maps the normalized alias, rule 3
	// applies a domain-wide regex. Each rule sees the cumulative result.
	rules := []RenameRule{
		{
			Style: StyleFold, Field: FieldName, Match: "bob smith",
			Destinations: []Destination{{Field: FieldName, Replacement: "Bob Smith"}},
		},
		{
			Style: StyleExact, Field: FieldName, Match: "Bob Smith",
			Destinations: []Destination{{Field: FieldEmail, Replacement: "bob@corp.example"}},
		},
		{
			Style: StyleRegex, Field: FieldEmail, Match: `^([a-z]+)@corp\.example$`,
			Destinations: []Destination{{Field: FieldEmail, Replacement: "$1@example.com"}},
		},
	}
	require.NoError(t, CompileRules(rules))

	got := Rename(Identity{Name: "BOB SMITH", Email: "whatever@old.example"}, rules)
	assert.Equal(t, Identity{Name: "Bob Smith", Email: "bob@example.com"}, got)
}

func TestRename_Deterministic(t *testing.T) {
	t.Parallel()

	rules := []RenameRule{
		{
			Style: StyleRegex, Field: FieldEmail, Match: `^bob@x\.com$`,
			Destinations: []Destination{{Field: FieldEmail, Replacement: "bob@y.com"}},
		},
		{
			Style: StyleFold, Field: FieldName, Match: "bob smith",
			Destinations: []Destination{{Field: FieldName, Replacement: "Bob"}},
		},
	}
	require.NoError(t, CompileRules(rules))

	id := Identity{Name: testName, Email: testEmail}

	first := Rename(id, rules)
	second := Rename(id, rules)

	assert.Equal(t, first, second)
	assert.Equal(t, Identity{Name: testName, Email: testEmail}, id, "input must not be modified")
}

func TestCompileRules_BadPattern(t *testing.T) {
	t.Parallel()

	rules := []RenameRule{{
		Style: StyleRegex, Field: FieldEmail, Match: `([`,
		Destinations: []Destination{{Field: FieldEmail, Replacement: "x"}},
	}}

	err := CompileRules(rules)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadPattern)
	assert.Contains(t, err.Error(), "rule 1")
}

func TestFieldString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "name", FieldName.String())
	assert.Equal(t, "email", FieldEmail.String())
}

func TestStyleString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exact", StyleExact.String())
	assert.Equal(t, "ifold", StyleFold.String())
	assert.Equal(t, "regex", StyleRegex.String())
}
