package impact

import (
	"time"

	"github.com/Sumatoshi-tech/gitimpact/pkg/identity"
	"github.com/Sumatoshi-tech/gitimpact/pkg/ignore"
)

// Report is a complete aggregation result ready for rendering, saving or
// merging.
type Report struct {
	GeneratedAt time.Time    `json:"generated_at"     yaml:"generated_at"`
	WeekStart   string       `json:"week_start"       yaml:"week_start"`
	Inputs      []string     `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Authors     []UserImpact `json:"authors"          yaml:"authors"`
	Weeks       []UserImpact `json:"weeks,omitempty"  yaml:"weeks,omitempty"`
}

// BuildReport aggregates parsed commits into a full report carrying both
// the per-author totals and the weekly subtotals.
func BuildReport(
	commits []Commit, renames []identity.RenameRule, ignores ignore.Ruleset, opts Options,
) Report {
	return Report{
		GeneratedAt: time.Now().UTC(),
		WeekStart:   opts.WeekStart.String(),
		Authors:     Aggregate(commits, renames, ignores, opts),
		Weeks:       AggregateWeekly(commits, renames, ignores, opts),
	}
}

// MergeReports folds reports into one. Author rows are re-grouped and
// re-ordered, weekly rows are re-grouped by author and week, inputs are
// concatenated in order and GeneratedAt keeps the latest stamp. Reports
// built with different week starts keep their own buckets.
func MergeReports(reports ...Report) Report {
	var (
		merged  Report
		authors []UserImpact
		weeks   []UserImpact
	)

	for _, r := range reports {
		if r.GeneratedAt.After(merged.GeneratedAt) {
			merged.GeneratedAt = r.GeneratedAt
		}

		if merged.WeekStart == "" {
			merged.WeekStart = r.WeekStart
		}

		merged.Inputs = append(merged.Inputs, r.Inputs...)
		authors = append(authors, r.Authors...)
		weeks = append(weeks, r.Weeks...)
	}

	merged.Authors = groupByAuthor(authors)
	sortByCommits(merged.Authors)
	merged.Weeks = groupByAuthorWeek(weeks)

	return merged
}
