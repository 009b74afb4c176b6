// Package config provides YAML-based project configuration for gitimpact.
package config

import (
	"errors"
	"log/slog"

	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
	"github.com/Sumatoshi-tech/gitimpact/pkg/observability"
	"github.com/Sumatoshi-tech/gitimpact/pkg/version"
)

// Config is the top-level configuration struct for gitimpact.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Report    ReportConfig    `mapstructure:"report"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Output    OutputConfig    `mapstructure:"output"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ReportConfig holds aggregation settings.
type ReportConfig struct {
	// WeekStart names the first day of the reporting week (monday..sunday).
	WeekStart string `mapstructure:"week_start"`

	// Weekly adds the per-author-per-week listing to reports.
	Weekly bool `mapstructure:"weekly"`

	// Languages adds the per-language line breakdown to reports.
	Languages bool `mapstructure:"languages"`
}

// RulesConfig holds rule file locations.
type RulesConfig struct {
	// RenameFile is the identity rename rules file. Empty means no rules.
	RenameFile string `mapstructure:"rename_file"`

	// IgnoreFile is the path ignore rules file. Empty means no rules.
	IgnoreFile string `mapstructure:"ignore_file"`
}

// OutputConfig holds rendering settings.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
	Width   int    `mapstructure:"width"`
}

// TelemetryConfig holds observability settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	DebugTrace   bool    `mapstructure:"debug_trace"`
	TraceVerbose bool    `mapstructure:"trace_verbose"`
	LogJSON      bool    `mapstructure:"log_json"`
	LogLevel     string  `mapstructure:"log_level"`
	MetricsFile  string  `mapstructure:"metrics_file"`
	Environment  string  `mapstructure:"environment"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidWeekStart indicates report.week_start is not a weekday name.
	ErrInvalidWeekStart = errors.New("report.week_start must name a weekday (monday..sunday)")
	// ErrInvalidWidth indicates output.width is negative.
	ErrInvalidWidth = errors.New("output.width must be non-negative")
	// ErrInvalidSampleRatio indicates telemetry.sample_ratio is out of range.
	ErrInvalidSampleRatio = errors.New("telemetry.sample_ratio must be between 0 and 1")
	// ErrInvalidLogLevel indicates telemetry.log_level is not a slog level.
	ErrInvalidLogLevel = errors.New("telemetry.log_level must be one of debug, info, warn, error")
)

// sampleRatioMax is the upper bound for the trace sampling ratio.
const sampleRatioMax = 1.0

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if _, err := impact.ParseWeekStart(c.Report.WeekStart); err != nil {
		return ErrInvalidWeekStart
	}

	if c.Output.Width < 0 {
		return ErrInvalidWidth
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > sampleRatioMax {
		return ErrInvalidSampleRatio
	}

	if _, err := c.logLevel(); err != nil {
		return ErrInvalidLogLevel
	}

	return nil
}

// WeekStart returns the parsed first day of the reporting week.
// Call Validate first; an unparsable value falls back to Monday.
func (c *Config) WeekStart() impact.WeekStart {
	start, err := impact.ParseWeekStart(c.Report.WeekStart)
	if err != nil {
		return impact.Monday
	}

	return start
}

// Observability maps the telemetry section onto an observability.Config.
// A configured metrics file marks the run as unattended (CI mode).
func (c *Config) Observability() observability.Config {
	cfg := observability.DefaultConfig()
	cfg.ServiceVersion = version.Version
	cfg.Environment = c.Telemetry.Environment
	cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	cfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	cfg.DebugTrace = c.Telemetry.DebugTrace
	cfg.TraceVerbose = c.Telemetry.TraceVerbose
	cfg.SampleRatio = c.Telemetry.SampleRatio
	cfg.LogJSON = c.Telemetry.LogJSON

	if level, err := c.logLevel(); err == nil {
		cfg.LogLevel = level
	}

	if c.Telemetry.MetricsFile != "" {
		cfg.Mode = observability.ModeCI
	}

	return cfg
}

func (c *Config) logLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Telemetry.LogLevel))
	if err != nil {
		return 0, ErrInvalidLogLevel
	}

	return level, nil
}
