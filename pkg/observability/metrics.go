package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRecordsTotal = "gitimpact.records.total"
	metricIgnoredTotal = "gitimpact.deltas.ignored.total"
	metricBinaryTotal  = "gitimpact.deltas.binary.total"
	metricRunDuration  = "gitimpact.run.duration.seconds"

	attrOp     = "op"
	attrStatus = "status"

	// StatusOK and StatusError are the status attribute values for RecordRun.
	StatusOK    = "ok"
	StatusError = "error"
)

// durationBucketBoundaries covers 5ms to 120s, from lint-sized logs to
// multi-decade histories parsed in one run.
var durationBucketBoundaries = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

// StreamStats holds the per-run counts of a parsed log stream,
// decoupled from the aggregation types.
type StreamStats struct {
	// Records is the number of commit records parsed.
	Records int64

	// IgnoredDeltas is the number of deltas dropped by ignore rules.
	IgnoredDeltas int64

	// BinaryDeltas is the number of deltas excluded as binary.
	BinaryDeltas int64
}

// RunMetrics holds the OTel instruments for gitimpact run metrics.
type RunMetrics struct {
	recordsTotal metric.Int64Counter
	ignoredTotal metric.Int64Counter
	binaryTotal  metric.Int64Counter
	runDuration  metric.Float64Histogram
}

// NewRunMetrics creates run metric instruments from the given meter.
func NewRunMetrics(mt metric.Meter) (*RunMetrics, error) {
	records, err := mt.Int64Counter(metricRecordsTotal,
		metric.WithDescription("Total commit records parsed"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRecordsTotal, err)
	}

	ignored, err := mt.Int64Counter(metricIgnoredTotal,
		metric.WithDescription("Total deltas dropped by ignore rules"),
		metric.WithUnit("{delta}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricIgnoredTotal, err)
	}

	binary, err := mt.Int64Counter(metricBinaryTotal,
		metric.WithDescription("Total deltas excluded as binary"),
		metric.WithUnit("{delta}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBinaryTotal, err)
	}

	duration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("End-to-end run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	return &RunMetrics{
		recordsTotal: records,
		ignoredTotal: ignored,
		binaryTotal:  binary,
		runDuration:  duration,
	}, nil
}

// RecordRun records a completed run with its operation, status, and duration.
// Safe to call on a nil receiver (no-op).
func (rm *RunMetrics) RecordRun(ctx context.Context, op, status string, duration time.Duration) {
	if rm == nil {
		return
	}

	rm.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	))
}

// RecordStream records the stream counts for a completed run.
// Safe to call on a nil receiver (no-op).
func (rm *RunMetrics) RecordStream(ctx context.Context, stats StreamStats) {
	if rm == nil {
		return
	}

	rm.recordsTotal.Add(ctx, stats.Records)
	rm.ignoredTotal.Add(ctx, stats.IgnoredDeltas)
	rm.binaryTotal.Add(ctx, stats.BinaryDeltas)
}
