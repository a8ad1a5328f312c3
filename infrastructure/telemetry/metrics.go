// Package telemetry provides OpenTelemetry metrics for tool invocations and
// storage uploads.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	toolInvocations metric.Int64Counter
	uploadOutcomes  metric.Int64Counter

	// Histograms
	toolDuration metric.Float64Histogram

	initErr error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/agent-iagon").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// MeterProvider supplies the meter; the global provider when nil.
	MeterProvider metric.MeterProvider
	// Attributes are default attributes to attach to all metrics.
	Attributes []attribute.KeyValue
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/agent-iagon",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		defaults := DefaultMetricsConfig()
		config.MeterName = defaults.MeterName
		config.MeterVersion = defaults.MeterVersion
	}

	provider := config.MeterProvider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	mp := &MetricsProvider{
		meter: provider.Meter(
			config.MeterName,
			metric.WithInstrumentationVersion(config.MeterVersion),
			metric.WithInstrumentationAttributes(config.Attributes...),
		),
	}
	mp.initErr = mp.initInstruments()
	return mp
}

// initInstruments initializes all metric instruments.
func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.toolInvocations, err = mp.meter.Int64Counter(
		"iagon.tool.invocations",
		metric.WithDescription("Number of tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return err
	}

	mp.uploadOutcomes, err = mp.meter.Int64Counter(
		"iagon.upload.outcomes",
		metric.WithDescription("Upload results by outcome kind"),
		metric.WithUnit("{upload}"),
	)
	if err != nil {
		return err
	}

	mp.toolDuration, err = mp.meter.Float64Histogram(
		"iagon.tool.duration",
		metric.WithDescription("Duration of tool invocations"),
		metric.WithUnit("ms"),
	)
	return err
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordToolInvocation records one tool invocation.
// Success means the tool returned without a Go error; domain failures
// carried in the output are counted as successful invocations.
func (mp *MetricsProvider) RecordToolInvocation(ctx context.Context, toolName, source string, success bool, duration time.Duration) {
	if mp.initErr != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.String("invocation.source", source),
		attribute.Bool("success", success),
	)
	mp.toolInvocations.Add(ctx, 1, attrs)
	mp.toolDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

// RecordUploadOutcome records the outcome kind of one upload.
func (mp *MetricsProvider) RecordUploadOutcome(ctx context.Context, kind string, visibility string) {
	if mp.initErr != nil {
		return
	}
	mp.uploadOutcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("upload.outcome", kind),
		attribute.String("upload.visibility", visibility),
	))
}

// NoopMetricsProvider is a no-op metrics provider for testing or when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordToolInvocation is a no-op.
func (NoopMetricsProvider) RecordToolInvocation(context.Context, string, string, bool, time.Duration) {
}

// RecordUploadOutcome is a no-op.
func (NoopMetricsProvider) RecordUploadOutcome(context.Context, string, string) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordToolInvocation(ctx context.Context, toolName, source string, success bool, duration time.Duration)
	RecordUploadOutcome(ctx context.Context, kind string, visibility string)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = NoopMetricsProvider{}
)
