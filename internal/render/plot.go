package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/Sumatoshi-tech/gitimpact/internal/plotpage"
	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
)

const (
	plotTitle      = "Contribution Impact"
	plotStackName  = "total"
	plotMaxAuthors = 20
	plotYAxisLabel = "Lines"
	plotWeekFormat = "2006-01-02"
	othersSeries   = "Others"
)

// renderPlot writes an interactive HTML bar chart. Weekly reports plot
// per-author impact stacked over weeks; plain reports plot insertions
// and deletions per author.
func renderPlot(writer io.Writer, report impact.Report) error {
	chart := buildChart(report)

	err := chart.Render(writer)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

func buildChart(report impact.Report) plotpage.Renderable {
	cOpts := plotpage.DefaultChartOpts()

	switch {
	case len(report.Weeks) > 0:
		return buildWeeklyChart(cOpts, report)
	case len(report.Authors) > 0:
		return buildAuthorChart(cOpts, report)
	default:
		return buildEmptyChart(cOpts)
	}
}

// buildAuthorChart plots one bar per author, insertions stacked on
// deletions so the bar height is the author's impact. Authors arrive
// ordered by descending commits; authors beyond the top cut fold into
// one "Others" bar.
func buildAuthorChart(cOpts *plotpage.ChartOpts, report impact.Report) plotpage.Renderable {
	authors := report.Authors
	subtitle := fmt.Sprintf("%d authors", len(authors))

	if len(authors) > plotMaxAuthors {
		folded := foldOthers(authors[plotMaxAuthors:])
		authors = append(authors[:plotMaxAuthors:plotMaxAuthors], folded)
		subtitle = fmt.Sprintf("top %d of %d authors", plotMaxAuthors, len(report.Authors))
	}

	labels := make([]string, len(authors))
	insertions := make([]int, len(authors))
	deletions := make([]int, len(authors))

	for i, row := range authors {
		labels[i] = row.Author
		insertions[i] = row.Insertions
		deletions[i] = row.Deletions
	}

	palette := cOpts.Palette()
	series := []plotpage.BarSeries{
		{Name: "Insertions", Data: toSeriesData(insertions), Color: palette.Semantic.Good, Stack: plotStackName},
		{Name: "Deletions", Data: toSeriesData(deletions), Color: palette.Semantic.Bad, Stack: plotStackName},
	}

	return plotpage.BuildBarChart(cOpts, plotTitle, subtitle, labels, series, plotYAxisLabel)
}

// buildWeeklyChart plots impact per week, one stacked series per author.
// Rows arrive ordered by ascending week, so first-seen week order is
// chronological.
func buildWeeklyChart(cOpts *plotpage.ChartOpts, report impact.Report) plotpage.Renderable {
	labels := make([]string, 0)
	weekIndex := make(map[int64]int)

	for _, row := range report.Weeks {
		key := row.Week.Unix()
		if _, ok := weekIndex[key]; !ok {
			weekIndex[key] = len(labels)
			labels = append(labels, row.Week.Format(plotWeekFormat))
		}
	}

	perAuthor := make(map[string][]int)
	totals := make(map[string]int)
	order := make([]string, 0)

	for _, row := range report.Weeks {
		if _, ok := perAuthor[row.Author]; !ok {
			perAuthor[row.Author] = make([]int, len(labels))

			order = append(order, row.Author)
		}

		perAuthor[row.Author][weekIndex[row.Week.Unix()]] += row.Impact
		totals[row.Author] += row.Impact
	}

	sort.SliceStable(order, func(i, j int) bool { return totals[order[i]] > totals[order[j]] })

	top := order
	hasOthers := false

	if len(order) > plotMaxAuthors {
		top = order[:plotMaxAuthors]
		hasOthers = true
	}

	series := make([]plotpage.BarSeries, 0, len(top)+1)

	for i, author := range top {
		series = append(series, plotpage.BarSeries{
			Name:  author,
			Data:  toSeriesData(perAuthor[author]),
			Color: cOpts.SeriesColor(i),
			Stack: plotStackName,
		})
	}

	if hasOthers {
		others := make([]int, len(labels))

		for _, author := range order[plotMaxAuthors:] {
			for i, v := range perAuthor[author] {
				others[i] += v
			}
		}

		series = append(series, plotpage.BarSeries{
			Name:  othersSeries,
			Data:  toSeriesData(others),
			Stack: plotStackName,
		})
	}

	subtitle := fmt.Sprintf("impact per week, weeks start %s", report.WeekStart)

	return plotpage.BuildBarChart(cOpts, plotTitle, subtitle, labels, series, plotYAxisLabel)
}

func buildEmptyChart(cOpts *plotpage.ChartOpts) plotpage.Renderable {
	return plotpage.BuildBarChart(cOpts, plotTitle, "No data (empty input)", []string{}, nil, plotYAxisLabel)
}

// foldOthers sums author rows into a single aggregate row.
func foldOthers(rows []impact.UserImpact) impact.UserImpact {
	folded := impact.UserImpact{Author: othersSeries}

	for _, row := range rows {
		folded.Commits += row.Commits
		folded.Insertions += row.Insertions
		folded.Deletions += row.Deletions
		folded.Impact += row.Impact
	}

	return folded
}

func toSeriesData(data []int) []plotpage.SeriesData {
	out := make([]plotpage.SeriesData, len(data))
	for i, v := range data {
		out[i] = v
	}

	return out
}
