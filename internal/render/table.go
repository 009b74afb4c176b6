package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
)

const weekColumnFormat = "2006-01-02"

// renderTable writes the report as aligned tables, one row per author,
// followed by a per-week table when the report carries weekly rows.
func renderTable(writer io.Writer, report impact.Report) error {
	authors := table.NewWriter()
	authors.SetStyle(table.StyleLight)
	authors.AppendHeader(table.Row{"Author", "Commits", "Insertions", "Deletions", "Impact"})

	var commits, insertions, deletions, total int

	for _, row := range report.Authors {
		authors.AppendRow(table.Row{
			row.Author,
			comma(row.Commits),
			comma(row.Insertions),
			comma(row.Deletions),
			comma(row.Impact),
		})

		commits += row.Commits
		insertions += row.Insertions
		deletions += row.Deletions
		total += row.Impact
	}

	authors.AppendFooter(table.Row{
		"Total", comma(commits), comma(insertions), comma(deletions), comma(total),
	})

	_, err := fmt.Fprintln(writer, authors.Render())
	if err != nil {
		return fmt.Errorf("write author table: %w", err)
	}

	if len(report.Weeks) == 0 {
		return nil
	}

	weekly := table.NewWriter()
	weekly.SetStyle(table.StyleLight)
	weekly.AppendHeader(table.Row{"Week", "Author", "Commits", "Insertions", "Deletions", "Impact"})

	for _, row := range report.Weeks {
		weekly.AppendRow(table.Row{
			row.Week.Format(weekColumnFormat),
			row.Author,
			comma(row.Commits),
			comma(row.Insertions),
			comma(row.Deletions),
			comma(row.Impact),
		})
	}

	fmt.Fprintln(writer)

	_, err = fmt.Fprintln(writer, weekly.Render())
	if err != nil {
		return fmt.Errorf("write weekly table: %w", err)
	}

	return nil
}
