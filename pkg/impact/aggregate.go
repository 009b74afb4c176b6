package impact

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/gitimpact/pkg/identity"
	"github.com/Sumatoshi-tech/gitimpact/pkg/ignore"
)

// Options configure an aggregation pass. The zero value starts weeks on
// Monday and skips the language breakdown.
type Options struct {
	WeekStart WeekStart
	Languages bool
}

// ComputeImpacts parses raw and folds it into one row per author, ordered
// by descending commit count. Authors with equal counts keep the order of
// their first appearance in the stream.
func ComputeImpacts(
	raw string, renames []identity.RenameRule, ignores ignore.Ruleset, opts Options,
) ([]UserImpact, error) {
	commits, err := ParseLog(raw)
	if err != nil {
		return nil, err
	}

	return Aggregate(commits, renames, ignores, opts), nil
}

// ComputeWeeklyImpacts parses raw and folds it into one row per author
// per week, ordered by ascending week.
func ComputeWeeklyImpacts(
	raw string, renames []identity.RenameRule, ignores ignore.Ruleset, opts Options,
) ([]UserImpact, error) {
	commits, err := ParseLog(raw)
	if err != nil {
		return nil, err
	}

	return AggregateWeekly(commits, renames, ignores, opts), nil
}

// ComputeImpactsAll aggregates independent log streams concurrently and
// merges the results into a single ordered per-author list. Streams never
// share state, so each runs on its own goroutine; the first parse failure
// cancels the rest.
func ComputeImpactsAll(
	ctx context.Context, raws []string, renames []identity.RenameRule, ignores ignore.Ruleset, opts Options,
) ([]UserImpact, error) {
	results := make([][]UserImpact, len(raws))

	g, ctx := errgroup.WithContext(ctx)

	for i, raw := range raws {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("input %d: %w", i+1, err)
			}

			rows, err := ComputeImpacts(raw, renames, ignores, opts)
			if err != nil {
				return fmt.Errorf("input %d: %w", i+1, err)
			}

			results[i] = rows

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []UserImpact
	for _, rows := range results {
		all = append(all, rows...)
	}

	merged := groupByAuthor(all)
	sortByCommits(merged)

	return merged, nil
}

// Aggregate folds parsed commits into one row per author.
func Aggregate(
	commits []Commit, renames []identity.RenameRule, ignores ignore.Ruleset, opts Options,
) []UserImpact {
	records := make([]UserImpact, 0, len(commits))
	for i := range commits {
		records = append(records, blockRecord(&commits[i], renames, ignores, opts))
	}

	rows := groupByAuthor(records)
	sortByCommits(rows)

	return rows
}

// AggregateWeekly folds parsed commits into one row per author per week.
func AggregateWeekly(
	commits []Commit, renames []identity.RenameRule, ignores ignore.Ruleset, opts Options,
) []UserImpact {
	records := make([]UserImpact, 0, len(commits))
	for i := range commits {
		records = append(records, blockRecord(&commits[i], renames, ignores, opts))
	}

	return groupByAuthorWeek(records)
}

// blockRecord reduces one commit to its contribution: the sums over kept
// deltas, the block impact and the week bucket, under the normalized
// author identity.
func blockRecord(c *Commit, renames []identity.RenameRule, ignores ignore.Ruleset, opts Options) UserImpact {
	id := identity.Rename(identity.Identity{Name: c.AuthorName, Email: c.AuthorEmail}, renames)

	rec := UserImpact{
		Author:  id.Name,
		Commits: 1,
		Week:    FloorWeek(c.Date, opts.WeekStart),
	}

	for _, d := range c.Deltas {
		if d.Binary || !ignores.Keep(c.Hash, d.Path) {
			continue
		}

		rec.Insertions += d.Insertions
		rec.Deletions += d.Deletions

		if opts.Languages {
			addLanguage(&rec, d.Path, d.Insertions, d.Deletions)
		}
	}

	rec.Impact = max(rec.Insertions, rec.Deletions)

	return rec
}

// add folds another record for the same author into u. The week keeps the
// earliest bucket and languages are summed per entry.
func (u *UserImpact) add(rec *UserImpact) {
	u.Commits += rec.Commits
	u.Insertions += rec.Insertions
	u.Deletions += rec.Deletions
	u.Impact += rec.Impact

	if u.Week.IsZero() || (!rec.Week.IsZero() && rec.Week.Before(u.Week)) {
		u.Week = rec.Week
	}

	if len(rec.Languages) == 0 {
		return
	}

	if u.Languages == nil {
		u.Languages = make(map[string]LineStats, len(rec.Languages))
	}

	for lang, stats := range rec.Languages {
		ls := u.Languages[lang]
		ls.Insertions += stats.Insertions
		ls.Deletions += stats.Deletions
		u.Languages[lang] = ls
	}
}

// groupByAuthor folds records into one row per case-folded author name.
// The emitted spelling and the row order follow first appearance.
func groupByAuthor(records []UserImpact) []UserImpact {
	rows := make([]UserImpact, 0)
	index := make(map[string]int)

	for i := range records {
		key := strings.ToLower(records[i].Author)

		at, ok := index[key]
		if !ok {
			at = len(rows)
			index[key] = at

			rows = append(rows, UserImpact{Author: records[i].Author})
		}

		rows[at].add(&records[i])
	}

	return rows
}

// groupByAuthorWeek folds records into one row per (author, week) pair,
// ordered by ascending week; rows within one week keep first-appearance
// order.
func groupByAuthorWeek(records []UserImpact) []UserImpact {
	type weekKey struct {
		author string
		week   int64
	}

	rows := make([]UserImpact, 0)
	index := make(map[weekKey]int)

	for i := range records {
		key := weekKey{author: strings.ToLower(records[i].Author), week: records[i].Week.Unix()}

		at, ok := index[key]
		if !ok {
			at = len(rows)
			index[key] = at

			rows = append(rows, UserImpact{Author: records[i].Author})
		}

		rows[at].add(&records[i])
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Week.Before(rows[j].Week) })

	return rows
}

// sortByCommits orders rows by descending commit count; rows with equal
// counts keep their existing order.
func sortByCommits(rows []UserImpact) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Commits > rows[j].Commits })
}
