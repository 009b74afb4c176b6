package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitimpact/pkg/glob"
)

// MatchCommand holds the match flags.
type MatchCommand struct {
	noColor bool
}

// NewMatchCommand creates the match command.
func NewMatchCommand() *cobra.Command {
	mc := &MatchCommand{}

	cmd := &cobra.Command{
		Use:   "match <pattern> [path...]",
		Short: "Test a glob pattern against candidate paths",
		Long: `Compile an ignore-rule glob pattern and test it against candidate paths.

Examples:
  gitimpact match '*.lock' Gemfile.lock src/main.go
  gitimpact match 'vendor/**'`,
		Args: cobra.MinimumNArgs(1),
		RunE: mc.run,
	}

	cmd.Flags().BoolVar(&mc.noColor, flagNoColor, false, "Disable colored output")

	return cmd
}

func (mc *MatchCommand) run(cmd *cobra.Command, args []string) error {
	if mc.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	pattern, err := glob.Compile(args[0])
	if err != nil {
		return fmt.Errorf("compile pattern: %w", err)
	}

	out := cmd.OutOrStdout()
	paths := args[1:]

	if len(paths) == 0 {
		color.New(color.FgGreen).Fprintf(out, "pattern %q compiles\n", pattern.String())

		return nil
	}

	for _, path := range paths {
		if pattern.Matches(path) {
			color.New(color.FgGreen).Fprintf(out, "match     %s\n", path)
		} else {
			color.New(color.FgRed).Fprintf(out, "no match  %s\n", path)
		}
	}

	return nil
}
