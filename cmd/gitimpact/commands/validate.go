package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/gitimpact/internal/schema"
	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
	"github.com/Sumatoshi-tech/gitimpact/pkg/persist"
)

// Exit codes separate schema violations from machinery failures so CI can
// tell a bad report from a broken run.
const (
	exitCodeInvalidReport   = 1
	exitCodeValidateFailure = 2
)

// ValidateCommand holds the validate flags and injected dependencies.
type ValidateCommand struct {
	noColor bool

	load loadExecutor
}

// NewValidateCommand creates the validate command with production dependencies.
func NewValidateCommand() *cobra.Command {
	return newValidateCommandWithDeps(persist.LoadFile)
}

func newValidateCommandWithDeps(load loadExecutor) *cobra.Command {
	vc := &ValidateCommand{load: load}

	cmd := &cobra.Command{
		Use:   "validate <report-file|->...",
		Short: "Check saved reports against the report schema",
		Long: `Validate saved impact reports against the canonical report schema.

JSON reports are validated as written; gob and lz4 reports are decoded
and re-marshalled first. Pass - to validate a JSON report from stdin.

Examples:
  gitimpact validate weekly.json
  gitimpact validate reports/*.gob.lz4
  gitimpact report numstat.log -f json --silent | gitimpact validate -`,
		Args: cobra.MinimumNArgs(1),
		RunE: vc.run,
	}

	cmd.Flags().BoolVar(&vc.noColor, flagNoColor, false, "Disable colored output")

	return cmd
}

func (vc *ValidateCommand) run(cmd *cobra.Command, args []string) error {
	if vc.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	out := cmd.OutOrStdout()
	invalid := 0

	for _, path := range args {
		document, err := vc.loadDocument(cmd, path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to load %s: %v\n", inputLabel(path), err)
			os.Exit(exitCodeValidateFailure)
		}

		issues, err := schema.ValidateReport(document)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Schema validation error: %v\n", err)
			os.Exit(exitCodeValidateFailure)
		}

		if reportIssues(out, inputLabel(path), issues) {
			invalid++
		}
	}

	if invalid > 0 {
		os.Exit(exitCodeInvalidReport)
	}

	return nil
}

// loadDocument returns a report's JSON bytes for schema validation. Plain
// JSON files and stdin are validated as written; gob and lz4 files are
// decoded and re-marshalled first.
func (vc *ValidateCommand) loadDocument(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdinMarker {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read report: %w", err)
		}

		return data, nil
	}

	var report impact.Report

	err := vc.load(path, &report)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	return data, nil
}

// reportIssues prints the verdict for one document and reports whether it
// was invalid.
func reportIssues(out io.Writer, label string, issues []schema.Issue) bool {
	if len(issues) == 0 {
		color.New(color.FgGreen).Fprintf(out, "%s is valid\n", label)

		return false
	}

	color.New(color.FgRed).Fprintf(out, "%s failed validation\n", label)

	for _, issue := range issues {
		color.New(color.FgRed).Fprintf(out, "  - %s\n", issue)
	}

	return true
}
