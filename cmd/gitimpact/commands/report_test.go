package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/gitimpact/internal/config"
	"github.com/Sumatoshi-tech/gitimpact/internal/render"
	"github.com/Sumatoshi-tech/gitimpact/pkg/ignore"
	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
	"github.com/Sumatoshi-tech/gitimpact/pkg/observability"
	"github.com/Sumatoshi-tech/gitimpact/pkg/persist"
)

const (
	testHashA = "9a54fd6ab44b39a2bbee4d991e7e118ef7a1b44c"
	testHashB = "f00dcafe11d540bfca9df50243db35c0f1c7dcbd"

	testDateThu = "2024-03-14T10:30:00Z"
	testDateMon = "2024-03-18T09:00:00Z"

	testAlice      = "Alice"
	testAliceEmail = "alice@example.com"
	testBob        = "Bob"
	testBobEmail   = "bob@example.com"
)

// testLogBlock builds one commit block the way the documented git
// invocation emits it.
func testLogBlock(hash, date, email, name string, entries ...string) string {
	var b strings.Builder

	b.WriteString("\x01")
	b.WriteString(hash)
	b.WriteString("\x1e")
	b.WriteString(date)
	b.WriteString("\x1e")
	b.WriteString(email)
	b.WriteString("\x1e")
	b.WriteString(name)
	b.WriteString("\x02\n")

	for _, entry := range entries {
		b.WriteString(entry)
		b.WriteString("\x00")
	}

	return b.String()
}

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func noopObservabilityInit(_ observability.Config) (observability.Providers, error) {
	return observability.Providers{
		Tracer:   nooptrace.NewTracerProvider().Tracer("test"),
		Meter:    noopmetric.NewMeterProvider().Meter("test"),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Shutdown: func(_ context.Context) error { return nil },
	}, nil
}

func TestReportCommand_WritesJSONReport(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice,
		"10\t2\tsrc/main.go",
		"5\t0\tdocs/readme.md",
	)
	logPath := writeTestFile(t, "numstat.log", raw)

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--format", "json", "--silent"})

	err := command.Execute()
	require.NoError(t, err)

	var report impact.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	require.Len(t, report.Authors, 1)
	assert.Equal(t, testAlice, report.Authors[0].Author)
	assert.Equal(t, 1, report.Authors[0].Commits)
	assert.Equal(t, 15, report.Authors[0].Insertions)
	assert.Equal(t, 2, report.Authors[0].Deletions)
	assert.Equal(t, 15, report.Authors[0].Impact)
	assert.Equal(t, []string{logPath}, report.Inputs)
	assert.Equal(t, "monday", report.WeekStart)
	assert.Empty(t, report.Weeks)
}

func TestReportCommand_NoInputs(t *testing.T) {
	t.Parallel()

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)
	command.SetOut(io.Discard)
	command.SetErr(io.Discard)
	command.SetArgs([]string{})

	err := command.Execute()
	require.ErrorIs(t, err, ErrNoInputs)
}

func TestReportCommand_ReadsStdin(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetIn(strings.NewReader(raw))
	command.SetArgs([]string{"-", "--format", "json", "--silent"})

	err := command.Execute()
	require.NoError(t, err)

	var report impact.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, []string{"stdin"}, report.Inputs)
	require.Len(t, report.Authors, 1)
	assert.Equal(t, testAlice, report.Authors[0].Author)
}

func TestReportCommand_MultipleInputsMergeAuthors(t *testing.T) {
	t.Parallel()

	first := writeTestFile(t, "first.log",
		testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go"))
	second := writeTestFile(t, "second.log",
		testLogBlock(testHashB, testDateMon, testAliceEmail, testAlice, "7\t0\tb.go"))

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{first, second, "--format", "json", "--silent"})

	err := command.Execute()
	require.NoError(t, err)

	var report impact.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	assert.Equal(t, []string{first, second}, report.Inputs)
	require.Len(t, report.Authors, 1)
	assert.Equal(t, 2, report.Authors[0].Commits)
	assert.Equal(t, 10, report.Authors[0].Insertions)
	assert.Equal(t, 1, report.Authors[0].Deletions)
}

func TestReportCommand_WeeklyRows(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go") +
		testLogBlock(testHashB, testDateMon, testAliceEmail, testAlice, "7\t0\tb.go")
	logPath := writeTestFile(t, "numstat.log", raw)

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--weekly", "--format", "json", "--silent"})

	err := command.Execute()
	require.NoError(t, err)

	var report impact.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	require.Len(t, report.Weeks, 2)
	assert.True(t, report.Weeks[0].Week.Before(report.Weeks[1].Week))
}

func TestReportCommand_AppliesRuleFiles(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go") +
		testLogBlock(testHashB, testDateMon, testBobEmail, testBob,
			"7\t0\tb.go",
			"500\t0\tGemfile.lock",
		)
	logPath := writeTestFile(t, "numstat.log", raw)
	renamePath := writeTestFile(t, "renames.rules", "exact name Alice -> name=Bob\n")
	ignorePath := writeTestFile(t, "ignore.rules", "# lockfiles are generated\n*.lock\n")

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{
		logPath,
		"--rename-file", renamePath,
		"--ignore-file", ignorePath,
		"--format", "json",
		"--silent",
	})

	err := command.Execute()
	require.NoError(t, err)

	var report impact.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	require.Len(t, report.Authors, 1)
	assert.Equal(t, testBob, report.Authors[0].Author)
	assert.Equal(t, 2, report.Authors[0].Commits)
	assert.Equal(t, 10, report.Authors[0].Insertions)
}

func TestReportCommand_SaveSkipsRendering(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")
	logPath := writeTestFile(t, "numstat.log", raw)

	var (
		savedPath   string
		savedReport impact.Report
	)

	save := func(path string, report any) error {
		savedPath = path

		saved, ok := report.(impact.Report)
		require.True(t, ok)
		savedReport = saved

		return nil
	}

	command := newReportCommandWithDeps(impact.ParseLog, save, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--save", "report.gob.lz4", "--silent"})

	err := command.Execute()
	require.NoError(t, err)
	require.Equal(t, "report.gob.lz4", savedPath)
	require.Len(t, savedReport.Authors, 1)
	assert.Zero(t, out.Len())
}

func TestReportCommand_SaveWithFormatStillRenders(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")
	logPath := writeTestFile(t, "numstat.log", raw)

	saveCalled := false
	save := func(_ string, _ any) error {
		saveCalled = true

		return nil
	}

	command := newReportCommandWithDeps(impact.ParseLog, save, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--save", "report.json", "--format", "json", "--silent"})

	err := command.Execute()
	require.NoError(t, err)
	require.True(t, saveCalled)
	assert.Positive(t, out.Len())
}

func TestReportCommand_OutputFile(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")
	logPath := writeTestFile(t, "numstat.log", raw)
	outPath := filepath.Join(t.TempDir(), "report.json")

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--format", "json", "--output", outPath, "--silent"})

	err := command.Execute()
	require.NoError(t, err)
	assert.Zero(t, out.Len())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var report impact.Report
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Authors, 1)
}

func TestReportCommand_ProgressOutput_DefaultEnabled(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")
	logPath := writeTestFile(t, "numstat.log", raw)

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var errOut bytes.Buffer
	command.SetOut(io.Discard)
	command.SetErr(&errOut)
	command.SetArgs([]string{logPath, "--format", "json"})

	err := command.Execute()
	require.NoError(t, err)
	require.Contains(t, errOut.String(), "progress: starting report")
	require.Contains(t, errOut.String(), "progress: parsed 1 records")
	require.Contains(t, errOut.String(), "progress: report completed")
}

func TestReportCommand_ProgressOutput_Silent(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")
	logPath := writeTestFile(t, "numstat.log", raw)

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var errOut bytes.Buffer
	command.SetOut(io.Discard)
	command.SetErr(&errOut)
	command.SetArgs([]string{logPath, "--format", "json", "--silent"})

	err := command.Execute()
	require.NoError(t, err)
	require.Empty(t, errOut.String())
}

func TestReportCommand_ConfigFileDefaults(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")
	logPath := writeTestFile(t, "numstat.log", raw)
	cfgPath := writeTestFile(t, "config.yaml", "report:\n  weekly: true\noutput:\n  format: json\n")

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--config", cfgPath, "--silent"})

	err := command.Execute()
	require.NoError(t, err)

	var report impact.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.NotEmpty(t, report.Weeks)
}

func TestReportCommand_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")
	logPath := writeTestFile(t, "numstat.log", raw)
	cfgPath := writeTestFile(t, "config.yaml", "output:\n  format: json\n")

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)

	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--config", cfgPath, "--format", "yaml", "--silent"})

	err := command.Execute()
	require.NoError(t, err)

	var report impact.Report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Authors, 1)
	assert.Contains(t, out.String(), "week_start: monday")
}

func TestReportCommand_MetricsFile(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice,
		"3\t1\ta.go",
		"-\t-\tlogo.png",
	)
	logPath := writeTestFile(t, "numstat.log", raw)
	metricsPath := filepath.Join(t.TempDir(), "run.prom")

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)
	command.SetOut(io.Discard)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--format", "json", "--silent", "--metrics-file", metricsPath})

	err := command.Execute()
	require.NoError(t, err)

	content, err := os.ReadFile(metricsPath)
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "gitimpact_records_total")
	assert.Contains(t, text, "gitimpact_deltas_binary_total")
	assert.Contains(t, text, "gitimpact_run_duration_seconds")
}

func TestReportCommand_InvalidWeekStart(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")
	logPath := writeTestFile(t, "numstat.log", raw)

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)
	command.SetOut(io.Discard)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--week-start", "caturday"})

	err := command.Execute()
	require.ErrorIs(t, err, config.ErrInvalidWeekStart)
}

func TestReportCommand_UnknownFormat(t *testing.T) {
	t.Parallel()

	raw := testLogBlock(testHashA, testDateThu, testAliceEmail, testAlice, "3\t1\ta.go")
	logPath := writeTestFile(t, "numstat.log", raw)

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)
	command.SetOut(io.Discard)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--format", "csv"})

	err := command.Execute()
	require.ErrorIs(t, err, render.ErrUnsupportedFormat)
}

func TestReportCommand_MalformedLogNamesInput(t *testing.T) {
	t.Parallel()

	logPath := writeTestFile(t, "numstat.log", "garbage before the first marker")

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)
	command.SetOut(io.Discard)
	command.SetErr(io.Discard)
	command.SetArgs([]string{logPath, "--silent"})

	err := command.Execute()
	require.ErrorIs(t, err, impact.ErrMalformedRecord)
	assert.Contains(t, err.Error(), logPath)
}

func TestReportCommand_MissingInputFile(t *testing.T) {
	t.Parallel()

	command := newReportCommandWithDeps(impact.ParseLog, persist.SaveFile, noopObservabilityInit)
	command.SetOut(io.Discard)
	command.SetErr(io.Discard)
	command.SetArgs([]string{filepath.Join(t.TempDir(), "missing.log"), "--silent"})

	err := command.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read log")
}

func TestCollectStreamStats(t *testing.T) {
	t.Parallel()

	rules, err := ignore.ParseRules(strings.NewReader("vendor/**\n"))
	require.NoError(t, err)

	commits := []impact.Commit{
		{
			Hash: testHashA,
			Deltas: []impact.Delta{
				{Path: "a.go", Insertions: 1},
				{Path: "logo.png", Binary: true},
				{Path: "vendor/lib.go", Insertions: 5},
			},
		},
		{
			Hash:   testHashB,
			Deltas: []impact.Delta{{Path: "b.go", Insertions: 2}},
		},
	}

	stats := collectStreamStats(commits, rules)
	assert.Equal(t, int64(2), stats.Records)
	assert.Equal(t, int64(1), stats.IgnoredDeltas)
	assert.Equal(t, int64(1), stats.BinaryDeltas)
}

func TestInputLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "stdin", inputLabel("-"))
	assert.Equal(t, "numstat.log", inputLabel("numstat.log"))
}
