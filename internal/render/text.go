package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/gitimpact/internal/terminal"
	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
)

const (
	textMaxAuthors   = 10
	textMaxWeeks     = 8
	textMaxLanguages = 8
	textAuthorWidth  = 24
	textIndent       = "  "
	textLabelWidth   = 22
	shareBarWidth    = 16
	weekLabelFormat  = "2006-01-02"
)

// terminalConfig resolves presentation options against the environment.
// Explicit options win over NO_COLOR and COLUMNS.
func (o Options) terminalConfig() terminal.Config {
	cfg := terminal.NewConfig()

	if o.Width > 0 {
		cfg.Width = o.Width
	}

	if o.NoColor {
		cfg.NoColor = true
	}

	return cfg
}

// renderText writes a human-readable impact summary to the writer.
func renderText(writer io.Writer, report impact.Report, opts Options) error {
	cfg := opts.terminalConfig()

	header := terminal.DrawHeader(
		"Contribution Impact",
		fmt.Sprintf("%d authors", len(report.Authors)),
		cfg.Width,
	)
	fmt.Fprintln(writer, header)
	fmt.Fprintln(writer)

	writeSummary(writer, cfg, report)

	if len(report.Authors) > 0 {
		fmt.Fprintln(writer)
		writeAuthors(writer, cfg, report.Authors)
	}

	if languages := languageTotals(report.Authors); len(languages) > 0 {
		fmt.Fprintln(writer)
		writeLanguages(writer, cfg, languages)
	}

	if len(report.Weeks) > 0 {
		fmt.Fprintln(writer)
		writeWeeks(writer, cfg, report.Weeks)
	}

	fmt.Fprintln(writer)

	return nil
}

func writeSummary(writer io.Writer, cfg terminal.Config, report impact.Report) {
	writeSectionTitle(writer, cfg, "Summary")

	var commits, insertions, deletions, total int

	for _, row := range report.Authors {
		commits += row.Commits
		insertions += row.Insertions
		deletions += row.Deletions
		total += row.Impact
	}

	fmt.Fprintf(writer, "%s%-*s %s\n", textIndent, textLabelWidth, "Authors", comma(len(report.Authors)))
	fmt.Fprintf(writer, "%s%-*s %s\n", textIndent, textLabelWidth, "Commits", comma(commits))
	fmt.Fprintf(writer, "%s%-*s %s\n", textIndent, textLabelWidth, "Insertions", comma(insertions))
	fmt.Fprintf(writer, "%s%-*s %s\n", textIndent, textLabelWidth, "Deletions", comma(deletions))
	fmt.Fprintf(writer, "%s%-*s %s\n", textIndent, textLabelWidth, "Impact", comma(total))

	if len(report.Inputs) > 0 {
		fmt.Fprintf(writer, "%s%-*s %s\n", textIndent, textLabelWidth, "Inputs", comma(len(report.Inputs)))
	}

	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(writer, "%s%-*s %s\n", textIndent, textLabelWidth, "Generated", humanize.Time(report.GeneratedAt))
	}
}

func writeAuthors(writer io.Writer, cfg terminal.Config, authors []impact.UserImpact) {
	writeSectionTitle(writer, cfg, "Top Authors")

	total := 0
	for _, row := range authors {
		total += row.Impact
	}

	shown := min(len(authors), textMaxAuthors)

	for _, row := range authors[:shown] {
		name := terminal.TruncateWithEllipsis(row.Author, textAuthorWidth)

		share := 0.0
		if total > 0 {
			share = float64(row.Impact) / float64(total)
		}

		fmt.Fprintf(writer, "%s%-*s %6s commits  %s / %s  %s %3.0f%%  %s\n",
			textIndent,
			textAuthorWidth, name,
			comma(row.Commits),
			cfg.Colorize("+"+comma(row.Insertions), terminal.ColorGreen),
			cfg.Colorize("-"+comma(row.Deletions), terminal.ColorRed),
			terminal.DrawProgressBar(share, shareBarWidth),
			share*terminal.PercentMultiplier,
			cfg.Colorize(primaryLanguage(row), terminal.ColorGray),
		)
	}

	if len(authors) > textMaxAuthors {
		fmt.Fprintf(writer, "%s%s\n", textIndent,
			cfg.Colorize(fmt.Sprintf("  and %d more...", len(authors)-textMaxAuthors), terminal.ColorGray))
	}
}

func writeWeeks(writer io.Writer, cfg terminal.Config, weeks []impact.UserImpact) {
	writeSectionTitle(writer, cfg, "Weekly Activity")

	type weekTotal struct {
		label      string
		commits    int
		insertions int
		deletions  int
	}

	// Rows arrive ordered by ascending week, so first-seen order is
	// chronological.
	totals := make([]weekTotal, 0)
	index := make(map[int64]int)

	for _, row := range weeks {
		key := row.Week.Unix()

		at, ok := index[key]
		if !ok {
			at = len(totals)
			index[key] = at

			totals = append(totals, weekTotal{label: row.Week.Format(weekLabelFormat)})
		}

		totals[at].commits += row.Commits
		totals[at].insertions += row.Insertions
		totals[at].deletions += row.Deletions
	}

	start := 0
	if len(totals) > textMaxWeeks {
		start = len(totals) - textMaxWeeks

		fmt.Fprintf(writer, "%s%s\n", textIndent,
			cfg.Colorize(fmt.Sprintf("  %d earlier weeks...", start), terminal.ColorGray))
	}

	for _, week := range totals[start:] {
		fmt.Fprintf(writer, "%s%s  %6s commits  %s / %s\n",
			textIndent,
			week.label,
			comma(week.commits),
			cfg.Colorize("+"+comma(week.insertions), terminal.ColorGreen),
			cfg.Colorize("-"+comma(week.deletions), terminal.ColorRed),
		)
	}
}

// languageTotal is one language's changed-line count across all authors.
type languageTotal struct {
	name  string
	lines int
}

// languageTotals sums changed lines per language over the author rows,
// ordered by descending lines with name ties broken alphabetically.
// Empty when no language breakdown was collected.
func languageTotals(authors []impact.UserImpact) []languageTotal {
	byName := make(map[string]int)

	for _, row := range authors {
		for lang, stats := range row.Languages {
			byName[lang] += stats.Insertions + stats.Deletions
		}
	}

	totals := make([]languageTotal, 0, len(byName))
	for name, lines := range byName {
		totals = append(totals, languageTotal{name: name, lines: lines})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].lines != totals[j].lines {
			return totals[i].lines > totals[j].lines
		}

		return totals[i].name < totals[j].name
	})

	return totals
}

func writeLanguages(writer io.Writer, cfg terminal.Config, languages []languageTotal) {
	writeSectionTitle(writer, cfg, "Languages")

	lines := 0
	for _, lang := range languages {
		lines += lang.lines
	}

	shown := min(len(languages), textMaxLanguages)

	for _, lang := range languages[:shown] {
		share := 0.0
		if lines > 0 {
			share = float64(lang.lines) / float64(lines)
		}

		fmt.Fprintf(writer, "%s%s\n", textIndent,
			terminal.DrawPercentBar(lang.name, share, lang.lines, textLabelWidth, shareBarWidth))
	}

	if len(languages) > textMaxLanguages {
		fmt.Fprintf(writer, "%s%s\n", textIndent,
			cfg.Colorize(fmt.Sprintf("  and %d more...", len(languages)-textMaxLanguages), terminal.ColorGray))
	}
}

func writeSectionTitle(writer io.Writer, cfg terminal.Config, title string) {
	fmt.Fprintf(writer, "%s%s\n", textIndent, cfg.Colorize(title, terminal.ColorBlue))
	fmt.Fprintf(writer, "%s%s\n", textIndent, terminal.DrawSeparator(cfg.Width-len(textIndent)*2))
}

// primaryLanguage returns the language with the most changed lines for
// the row, or "" when no breakdown was collected. Ties break on name so
// output is stable across runs.
func primaryLanguage(row impact.UserImpact) string {
	best := ""
	bestLines := -1

	for lang, stats := range row.Languages {
		lines := stats.Insertions + stats.Deletions
		if lines > bestLines || (lines == bestLines && lang < best) {
			best = lang
			bestLines = lines
		}
	}

	return best
}

// comma formats an int with thousand separators.
func comma(n int) string {
	return humanize.Comma(int64(n))
}
