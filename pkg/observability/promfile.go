package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// TextfileMetrics collects OTel instruments into a dedicated Prometheus
// registry and writes them in exposition format for the node_exporter
// textfile collector. This is the batch-job pattern: a short-lived process
// cannot be scraped, so it leaves its metrics on disk instead.
type TextfileMetrics struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
	path     string
}

// NewTextfileMetrics creates a Prometheus-backed meter whose instruments are
// written to path on Write. Each call creates an independent registry to
// avoid collector conflicts when called multiple times.
func NewTextfileMetrics(path string) (*TextfileMetrics, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	return &TextfileMetrics{
		registry: registry,
		provider: provider,
		path:     path,
	}, nil
}

// Meter returns the meter backing the textfile registry. Instruments created
// from it are included in the next Write.
func (tm *TextfileMetrics) Meter() metric.Meter {
	return tm.provider.Meter(meterName)
}

// Write gathers the current instrument state and writes it to the configured
// path in exposition format. The write goes through a temp file and rename,
// so a concurrently scraping collector never sees a partial file.
func (tm *TextfileMetrics) Write() error {
	err := prometheus.WriteToTextfile(tm.path, tm.registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}

// Close shuts down the backing meter provider.
func (tm *TextfileMetrics) Close(ctx context.Context) error {
	err := tm.provider.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown textfile metrics: %w", err)
	}

	return nil
}
