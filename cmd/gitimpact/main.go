// Package main provides the entry point for the gitimpact CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitimpact/cmd/gitimpact/commands"
	"github.com/Sumatoshi-tech/gitimpact/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gitimpact",
		Short: "Gitimpact - Per-author contribution reports from git logs",
		Long: `Gitimpact aggregates git numstat logs into per-author impact reports.

Commands:
  report    Aggregate numstat logs into an impact report
  merge     Merge saved reports into one
  match     Test a glob pattern against candidate paths
  validate  Check saved reports against the report schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	// Add commands.
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewMergeCommand())
	rootCmd.AddCommand(commands.NewMatchCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "gitimpact %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
