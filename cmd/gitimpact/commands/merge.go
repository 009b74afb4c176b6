package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitimpact/internal/render"
	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
	"github.com/Sumatoshi-tech/gitimpact/pkg/persist"
)

type loadExecutor func(path string, report any) error

// MergeCommand holds the merge flags and injected dependencies.
type MergeCommand struct {
	output  string
	format  string
	width   int
	noColor bool

	load loadExecutor
	save saveExecutor
}

// NewMergeCommand creates the merge command with production dependencies.
func NewMergeCommand() *cobra.Command {
	return newMergeCommandWithDeps(persist.LoadFile, persist.SaveFile)
}

func newMergeCommandWithDeps(load loadExecutor, save saveExecutor) *cobra.Command {
	mc := &MergeCommand{
		format: render.FormatJSON,
		load:   load,
		save:   save,
	}

	cmd := &cobra.Command{
		Use:   "merge <report-file>...",
		Short: "Merge saved reports into one",
		Long: `Merge saved impact reports into a single report.

Author rows are re-grouped and re-ordered across the inputs; weekly rows
are re-grouped per author and week. With --output the merged report is
saved with the codec its extension names, otherwise it is rendered to
stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: mc.run,
	}

	cmd.Flags().StringVarP(&mc.output, "output", "o", "", "Save the merged report to file (.json, .gob, .json.lz4, .gob.lz4)")
	cmd.Flags().StringVarP(&mc.format, flagFormat, "f", render.FormatJSON, "Output format when printing to stdout: json, yaml, text, table, plot")
	cmd.Flags().IntVar(&mc.width, flagWidth, 0, "Text output width (0 = detect)")
	cmd.Flags().BoolVar(&mc.noColor, flagNoColor, false, "Disable colored text output")

	return cmd
}

func (mc *MergeCommand) run(cmd *cobra.Command, args []string) error {
	format, err := render.ValidateFormat(mc.format)
	if err != nil {
		return err
	}

	reports := make([]impact.Report, 0, len(args))

	for _, path := range args {
		var report impact.Report

		err := mc.load(path, &report)
		if err != nil {
			return err
		}

		reports = append(reports, report)
	}

	merged := impact.MergeReports(reports...)

	if mc.output != "" {
		return mc.save(mc.output, merged)
	}

	opts := render.Options{
		Width:   mc.width,
		NoColor: mc.noColor,
	}

	return render.Render(cmd.OutOrStdout(), merged, format, opts)
}
