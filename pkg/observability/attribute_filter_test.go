package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Sumatoshi-tech/gitimpact/pkg/observability"
)

func filteredTracerProvider(t *testing.T, logger *slog.Logger) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	filter := observability.NewAttributeFilter(sdktrace.NewSimpleSpanProcessor(exporter), logger)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(filter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	return exporter, tp
}

func TestAttributeFilter_AllowsKnownKeys(t *testing.T) {
	t.Parallel()

	exporter, tp := filteredTracerProvider(t, nil)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(
		attribute.String("error.type", "malformed_record"),
		attribute.Int("input.count", 3),
		attribute.Int("records", 42),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	attrs := spanAttrMap(spans[0])
	assert.Equal(t, "malformed_record", attrs["error.type"])
	assert.Equal(t, int64(3), attrs["input.count"])
	assert.Equal(t, int64(42), attrs["records"])
}

func TestAttributeFilter_BlocksContributorPII(t *testing.T) {
	t.Parallel()

	exporter, tp := filteredTracerProvider(t, nil)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(
		attribute.String("author.email", "alice@example.com"),
		attribute.String("author.name", "Alice"),
		attribute.String("email", "bob@example.com"),
		attribute.String("name", "Bob Smith"),
		attribute.String("user.id", "12345"),
		attribute.String("error.type", "internal"),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	attrs := spanAttrMap(spans[0])

	// Contributor identity keys must be stripped.
	assert.NotContains(t, attrs, "author.email")
	assert.NotContains(t, attrs, "author.name")
	assert.NotContains(t, attrs, "email")
	assert.NotContains(t, attrs, "name")
	assert.NotContains(t, attrs, "user.id")

	// Allowed key must be preserved.
	assert.Equal(t, "internal", attrs["error.type"])
}

func TestAttributeFilter_WarnsInDebugMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	_, tp := filteredTracerProvider(t, logger)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(
		attribute.String("author.login", "val"),
	)
	span.End()

	assert.Contains(t, buf.String(), "author.login")
	assert.Contains(t, buf.String(), "blocked")
}

func TestAttributeFilter_PassesToolPrefixes(t *testing.T) {
	t.Parallel()

	exporter, tp := filteredTracerProvider(t, nil)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.SetAttributes(
		attribute.String("gitimpact.week_start", "monday"),
		attribute.String("report.format", "table"),
		attribute.String("error.source", "parser"),
	)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	attrs := spanAttrMap(spans[0])
	assert.Equal(t, "monday", attrs["gitimpact.week_start"])
	assert.Equal(t, "table", attrs["report.format"])
	assert.Equal(t, "parser", attrs["error.source"])
}

// spanAttrMap converts a span's attributes into a map for easy assertion.
func spanAttrMap(s tracetest.SpanStub) map[string]any {
	m := make(map[string]any, len(s.Attributes))
	for _, a := range s.Attributes {
		m[string(a.Key)] = a.Value.AsInterface()
	}

	return m
}
