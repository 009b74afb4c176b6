package config

// Report defaults.
const (
	DefaultReportWeekStart = "monday"
	DefaultReportWeekly    = false
	DefaultReportLanguages = false
)

// Rules defaults.
const (
	DefaultRulesRenameFile = ""
	DefaultRulesIgnoreFile = ""
)

// Output defaults.
const (
	DefaultOutputFormat  = "text"
	DefaultOutputNoColor = false
	DefaultOutputWidth   = 0
)

// Telemetry defaults.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetryOTLPHeaders  = ""
	DefaultTelemetrySampleRatio  = 0.0
	DefaultTelemetryDebugTrace   = false
	DefaultTelemetryTraceVerbose = false
	DefaultTelemetryLogJSON      = false
	DefaultTelemetryLogLevel     = "info"
	DefaultTelemetryMetricsFile  = ""
	DefaultTelemetryEnvironment  = ""
)
