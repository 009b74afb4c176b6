// Package commands implements CLI command handlers for gitimpact.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/gitimpact/internal/config"
	"github.com/Sumatoshi-tech/gitimpact/internal/render"
	"github.com/Sumatoshi-tech/gitimpact/pkg/identity"
	"github.com/Sumatoshi-tech/gitimpact/pkg/ignore"
	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
	"github.com/Sumatoshi-tech/gitimpact/pkg/observability"
	"github.com/Sumatoshi-tech/gitimpact/pkg/persist"
)

type parseExecutor func(raw string) ([]impact.Commit, error)

type saveExecutor func(path string, report any) error

type observabilityInit func(cfg observability.Config) (observability.Providers, error)

// ErrNoInputs is returned when the report command is invoked without any
// log file arguments.
var ErrNoInputs = errors.New("at least one log file (or - for stdin) is required")

// stdinMarker selects standard input in place of a log file path.
const stdinMarker = "-"

// Operation names for the run duration metric.
const (
	opReport    = "report"
	opParse     = "parse"
	opAggregate = "aggregate"
)

// Flag names shared between registration and config merging.
const (
	flagRenameFile  = "rename-file"
	flagIgnoreFile  = "ignore-file"
	flagWeekStart   = "week-start"
	flagWeekly      = "weekly"
	flagLanguages   = "languages"
	flagFormat      = "format"
	flagWidth       = "width"
	flagNoColor     = "no-color"
	flagMetricsFile = "metrics-file"
)

// ReportCommand holds the report flags and injected dependencies.
type ReportCommand struct {
	configFile  string
	renameFile  string
	ignoreFile  string
	weekStart   string
	weekly      bool
	languages   bool
	format      string
	output      string
	saveFile    string
	metricsFile string
	width       int
	noColor     bool
	silent      bool

	parse   parseExecutor
	save    saveExecutor
	obsInit observabilityInit
}

// reportRun carries the per-invocation state threaded through the report
// phases.
type reportRun struct {
	cfg       *config.Config
	format    string
	providers observability.Providers
	metrics   *observability.RunMetrics
	silent    bool
	progress  io.Writer
}

// NewReportCommand creates the report command with production dependencies.
func NewReportCommand() *cobra.Command {
	return newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, observability.Init)
}

func newReportCommandWithDeps(parse parseExecutor, save saveExecutor, obsInit observabilityInit) *cobra.Command {
	rc := &ReportCommand{
		parse:   parse,
		save:    save,
		obsInit: obsInit,
	}

	cmd := &cobra.Command{
		Use:   "report <log-file>...",
		Short: "Aggregate numstat logs into an impact report",
		Long: `Aggregate git numstat logs into a per-author impact report.

Inputs are files produced by:
  git log --all --pretty=format:'%x01%H%x1e%aI%x1e%ae%x1e%an%x02' --numstat -z

Pass - to read a single log from stdin. Multiple inputs are parsed
concurrently and aggregated into one report.

With --save the rendered output is skipped unless --format or --output
is also given.`,
		Args: cobra.ArbitraryArgs,
		RunE: rc.run,
	}

	cmd.Flags().StringVarP(&rc.configFile, "config", "c", "", "Config file (default .gitimpact.yaml in CWD, then $HOME)")
	cmd.Flags().StringVar(&rc.renameFile, flagRenameFile, "", "Author rename rules file")
	cmd.Flags().StringVar(&rc.ignoreFile, flagIgnoreFile, "", "Path ignore rules file")
	cmd.Flags().StringVar(&rc.weekStart, flagWeekStart, "", "First day of the reporting week (monday..sunday)")
	cmd.Flags().BoolVar(&rc.weekly, flagWeekly, false, "Include per-author weekly rows")
	cmd.Flags().BoolVar(&rc.languages, flagLanguages, false, "Break line counts down by detected language")
	cmd.Flags().StringVarP(&rc.format, flagFormat, "f", "", "Output format: json, yaml, text, table, plot")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "Write rendered output to file instead of stdout")
	cmd.Flags().StringVar(&rc.saveFile, "save", "", "Save the report to file (.json, .gob, .json.lz4, .gob.lz4)")
	cmd.Flags().StringVar(&rc.metricsFile, flagMetricsFile, "", "Write run metrics to file in Prometheus exposition format")
	cmd.Flags().IntVar(&rc.width, flagWidth, 0, "Text output width (0 = detect)")
	cmd.Flags().BoolVar(&rc.noColor, flagNoColor, false, "Disable colored text output")
	cmd.Flags().BoolVar(&rc.silent, "silent", false, "Disable progress output")

	return cmd
}

func (rc *ReportCommand) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return ErrNoInputs
	}

	cfg, err := config.LoadConfig(rc.configFile)
	if err != nil {
		return err
	}

	rc.mergeFlags(cmd, cfg)

	err = cfg.Validate()
	if err != nil {
		return err
	}

	format, err := render.ValidateFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	providers, err := rc.obsInit(cfg.Observability())
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	ctx := cmd.Context()

	defer func() {
		_ = providers.Shutdown(ctx)
	}()

	metrics, flushMetrics, err := buildRunMetrics(ctx, cfg, providers)
	if err != nil {
		return err
	}
	defer flushMetrics()

	ctx, runSpan := providers.Tracer.Start(ctx, observability.SpanRun)
	defer runSpan.End()

	runSpan.SetAttributes(
		attribute.Int("gitimpact.inputs", len(args)),
		attribute.String("gitimpact.format", format),
	)

	run := &reportRun{
		cfg:       cfg,
		format:    format,
		providers: providers,
		metrics:   metrics,
		silent:    rc.isSilent(cmd),
		progress:  cmd.ErrOrStderr(),
	}

	startedAt := time.Now()
	runErr := rc.execute(ctx, cmd, args, run)

	status := observability.StatusOK
	if runErr != nil {
		status = observability.StatusError
	}

	metrics.RecordRun(ctx, opReport, status, time.Since(startedAt))

	return runErr
}

func (rc *ReportCommand) execute(ctx context.Context, cmd *cobra.Command, inputs []string, run *reportRun) error {
	rc.progressf(run.silent, run.progress, "starting report inputs=%d", len(inputs))

	renames, ignores, err := loadRules(run.cfg)
	if err != nil {
		return err
	}

	parseStart := time.Now()

	commits, err := rc.parseInputs(ctx, cmd, inputs, run)
	if err != nil {
		run.metrics.RecordRun(ctx, opParse, observability.StatusError, time.Since(parseStart))

		return err
	}

	run.metrics.RecordRun(ctx, opParse, observability.StatusOK, time.Since(parseStart))

	stats := collectStreamStats(commits, ignores)
	run.metrics.RecordStream(ctx, stats)
	rc.progressf(run.silent, run.progress, "parsed %d records in %s",
		stats.Records, time.Since(parseStart).Round(time.Millisecond))

	aggregateStart := time.Now()
	report := rc.buildReport(ctx, commits, renames, ignores, inputs, run)
	run.metrics.RecordRun(ctx, opAggregate, observability.StatusOK, time.Since(aggregateStart))
	rc.progressf(run.silent, run.progress, "aggregated %d authors in %s",
		len(report.Authors), time.Since(aggregateStart).Round(time.Millisecond))

	err = rc.writeOutputs(cmd, report, run)
	if err != nil {
		return err
	}

	run.providers.Logger.DebugContext(ctx, "report completed",
		"inputs", len(inputs),
		"records", stats.Records,
		"authors", len(report.Authors),
	)
	rc.progressf(run.silent, run.progress, "report completed")

	return nil
}

// mergeFlags overlays explicitly set flags onto the loaded configuration.
func (rc *ReportCommand) mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed(flagWeekStart) {
		cfg.Report.WeekStart = rc.weekStart
	}

	if flags.Changed(flagWeekly) {
		cfg.Report.Weekly = rc.weekly
	}

	if flags.Changed(flagLanguages) {
		cfg.Report.Languages = rc.languages
	}

	if flags.Changed(flagRenameFile) {
		cfg.Rules.RenameFile = rc.renameFile
	}

	if flags.Changed(flagIgnoreFile) {
		cfg.Rules.IgnoreFile = rc.ignoreFile
	}

	if flags.Changed(flagFormat) {
		cfg.Output.Format = rc.format
	}

	if flags.Changed(flagWidth) {
		cfg.Output.Width = rc.width
	}

	if flags.Changed(flagNoColor) {
		cfg.Output.NoColor = rc.noColor
	}

	if flags.Changed(flagMetricsFile) {
		cfg.Telemetry.MetricsFile = rc.metricsFile
	}

	if verboseFlagSet(cmd) {
		cfg.Telemetry.LogLevel = "debug"
	}
}

// parseInputs reads and parses every input concurrently. Commits keep the
// argument order of their inputs in the returned slice.
func (rc *ReportCommand) parseInputs(
	ctx context.Context, cmd *cobra.Command, inputs []string, run *reportRun,
) ([]impact.Commit, error) {
	ctx, span := run.providers.Tracer.Start(ctx, observability.SpanInputParse)
	defer span.End()

	span.SetAttributes(attribute.Int("gitimpact.inputs", len(inputs)))

	parsed := make([][]impact.Commit, len(inputs))

	g, ctx := errgroup.WithContext(ctx)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("%s: %w", inputLabel(input), err)
			}

			raw, err := rc.readInput(cmd, input)
			if err != nil {
				return err
			}

			commits, err := rc.parse(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", inputLabel(input), err)
			}

			parsed[i] = commits

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var commits []impact.Commit
	for _, batch := range parsed {
		commits = append(commits, batch...)
	}

	return commits, nil
}

func (rc *ReportCommand) readInput(cmd *cobra.Command, input string) (string, error) {
	if input == stdinMarker {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("read log: %w", err)
	}

	return string(data), nil
}

// buildReport aggregates commits into the final report. Weekly rows are
// only computed when requested.
func (rc *ReportCommand) buildReport(
	ctx context.Context,
	commits []impact.Commit,
	renames []identity.RenameRule,
	ignores ignore.Ruleset,
	inputs []string,
	run *reportRun,
) impact.Report {
	_, span := run.providers.Tracer.Start(ctx, observability.SpanAggregate)
	defer span.End()

	opts := impact.Options{
		WeekStart: run.cfg.WeekStart(),
		Languages: run.cfg.Report.Languages,
	}

	report := impact.Report{
		GeneratedAt: time.Now().UTC(),
		WeekStart:   opts.WeekStart.String(),
		Inputs:      inputLabels(inputs),
		Authors:     impact.Aggregate(commits, renames, ignores, opts),
	}

	if run.cfg.Report.Weekly {
		report.Weeks = impact.AggregateWeekly(commits, renames, ignores, opts)
	}

	span.SetAttributes(attribute.Int("gitimpact.authors", len(report.Authors)))

	return report
}

func (rc *ReportCommand) writeOutputs(cmd *cobra.Command, report impact.Report, run *reportRun) error {
	if rc.saveFile != "" {
		err := rc.save(rc.saveFile, report)
		if err != nil {
			return err
		}

		rc.progressf(run.silent, run.progress, "saved report to %s", rc.saveFile)
	}

	if !rc.shouldRender(cmd) {
		return nil
	}

	opts := render.Options{
		Width:   run.cfg.Output.Width,
		NoColor: run.cfg.Output.NoColor,
	}

	if rc.output == "" {
		return render.Render(cmd.OutOrStdout(), report, run.format, opts)
	}

	file, err := os.Create(rc.output)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := render.Render(file, report, run.format, opts); err != nil {
		_ = file.Close()

		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}

	rc.progressf(run.silent, run.progress, "wrote %s report to %s", run.format, rc.output)

	return nil
}

// shouldRender reports whether rendered output is written. Saving a report
// skips rendering unless a format or output path was given explicitly.
func (rc *ReportCommand) shouldRender(cmd *cobra.Command) bool {
	if rc.saveFile == "" {
		return true
	}

	return cmd.Flags().Changed(flagFormat) || rc.output != ""
}

// isSilent reports whether progress output is disabled by the --silent
// flag or the persistent --quiet flag.
func (rc *ReportCommand) isSilent(cmd *cobra.Command) bool {
	if rc.silent {
		return true
	}

	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return false
	}

	return quiet
}

func (rc *ReportCommand) progressf(silent bool, writer io.Writer, format string, args ...any) {
	if silent {
		return
	}

	_, _ = fmt.Fprintf(writer, "progress: "+format+"\n", args...)
}

// buildRunMetrics creates the run instruments, backed by a dedicated
// textfile registry when a metrics file is configured. The returned flush
// writes and closes that registry; without a metrics file it is a no-op.
func buildRunMetrics(
	ctx context.Context, cfg *config.Config, providers observability.Providers,
) (*observability.RunMetrics, func(), error) {
	meter := providers.Meter

	var textfile *observability.TextfileMetrics

	if cfg.Telemetry.MetricsFile != "" {
		tm, err := observability.NewTextfileMetrics(cfg.Telemetry.MetricsFile)
		if err != nil {
			return nil, nil, err
		}

		meter = tm.Meter()
		textfile = tm
	}

	metrics, err := observability.NewRunMetrics(meter)
	if err != nil {
		return nil, nil, err
	}

	flush := func() {
		if textfile == nil {
			return
		}

		writeErr := textfile.Write()
		if writeErr != nil {
			providers.Logger.ErrorContext(ctx, "write metrics textfile", "error", writeErr)
		}

		_ = textfile.Close(ctx)
	}

	return metrics, flush, nil
}

func loadRules(cfg *config.Config) ([]identity.RenameRule, ignore.Ruleset, error) {
	var (
		renames []identity.RenameRule
		ignores ignore.Ruleset
	)

	if cfg.Rules.RenameFile != "" {
		rules, err := identity.LoadRules(cfg.Rules.RenameFile)
		if err != nil {
			return nil, nil, err
		}

		renames = rules
	}

	if cfg.Rules.IgnoreFile != "" {
		rules, err := ignore.LoadRules(cfg.Rules.IgnoreFile)
		if err != nil {
			return nil, nil, err
		}

		ignores = rules
	}

	return renames, ignores, nil
}

// collectStreamStats counts parsed records and the deltas aggregation will
// drop.
func collectStreamStats(commits []impact.Commit, ignores ignore.Ruleset) observability.StreamStats {
	stats := observability.StreamStats{Records: int64(len(commits))}

	for i := range commits {
		commit := &commits[i]
		for _, delta := range commit.Deltas {
			switch {
			case delta.Binary:
				stats.BinaryDeltas++
			case !ignores.Keep(commit.Hash, delta.Path):
				stats.IgnoredDeltas++
			}
		}
	}

	return stats
}

// inputLabel names an input in errors and report metadata.
func inputLabel(input string) string {
	if input == stdinMarker {
		return "stdin"
	}

	return input
}

func inputLabels(inputs []string) []string {
	labels := make([]string, len(inputs))
	for i, input := range inputs {
		labels[i] = inputLabel(input)
	}

	return labels
}

// verboseFlagSet reads the persistent verbose flag when the command is
// attached to the root.
func verboseFlagSet(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}

	return verbose
}
