package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/gitimpact/internal/config"
	"github.com/Sumatoshi-tech/gitimpact/pkg/impact"
)

func validConfig() config.Config {
	return config.Config{
		Report:    config.ReportConfig{WeekStart: "monday"},
		Output:    config.OutputConfig{Format: "text"},
		Telemetry: config.TelemetryConfig{LogLevel: "info"},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(_ *config.Config) {},
		},
		{
			name:    "bad_week_start",
			mutate:  func(c *config.Config) { c.Report.WeekStart = "caturday" },
			wantErr: config.ErrInvalidWeekStart,
		},
		{
			name:    "negative_width",
			mutate:  func(c *config.Config) { c.Output.Width = -1 },
			wantErr: config.ErrInvalidWidth,
		},
		{
			name:    "sample_ratio_above_one",
			mutate:  func(c *config.Config) { c.Telemetry.SampleRatio = 1.5 },
			wantErr: config.ErrInvalidSampleRatio,
		},
		{
			name:    "sample_ratio_negative",
			mutate:  func(c *config.Config) { c.Telemetry.SampleRatio = -0.1 },
			wantErr: config.ErrInvalidSampleRatio,
		},
		{
			name:    "bad_log_level",
			mutate:  func(c *config.Config) { c.Telemetry.LogLevel = "loud" },
			wantErr: config.ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfig_WeekStart_ParsesConfiguredDay(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Report.WeekStart = "Sunday"

	assert.Equal(t, impact.Sunday, cfg.WeekStart())
}

func TestConfig_WeekStart_FallsBackToMonday(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Report.WeekStart = "nonsense"

	assert.Equal(t, impact.Monday, cfg.WeekStart())
}
