// Package ignore decides which changed paths count toward a report.
//
// Rules are declared in order and evaluated in reverse: the last declared
// rule that applies to a (commit, path) pair decides the outcome, so
// appending a rule overrides earlier, more general ones. When no rule
// applies the path is kept.
package ignore

import (
	"strings"

	"github.com/Sumatoshi-tech/gitimpact/pkg/glob"
)

// Rule drops or keeps paths changed by commits whose hash starts with
// CommitPrefix. A plain rule drops matching paths; a negated rule keeps
// them, overriding earlier drops. An empty CommitPrefix applies the rule
// to every commit.
type Rule struct {
	CommitPrefix string
	Pattern      *glob.Pattern
	Negate       bool
}

// matches reports whether the rule applies to the commit/path pair.
func (r *Rule) matches(commitHash, path string) bool {
	return strings.HasPrefix(commitHash, r.CommitPrefix) && r.Pattern.Matches(path)
}

// Ruleset is an ordered list of ignore rules.
type Ruleset []Rule

// Keep reports whether the path changed by the given commit counts toward
// the report. Rules are scanned from last to first and the first
// applicable rule decides; with no applicable rule the path is kept.
func (rs Ruleset) Keep(commitHash, path string) bool {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].matches(commitHash, path) {
			return rs[i].Negate
		}
	}

	return true
}
