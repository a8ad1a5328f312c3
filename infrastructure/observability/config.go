// Package observability provides OpenTelemetry tracing for tool invocations
// and the meter provider their metrics are recorded on.
package observability

import (
	"io"
	"os"
	"time"

	"github.com/felixgeelhaar/agent-iagon/domain/config"
)

// Config configures the observability infrastructure.
type Config struct {
	// ServiceName is the name of the service for telemetry.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Environment is the deployment environment (e.g., "production", "staging").
	Environment string

	// Tracing configures distributed tracing.
	Tracing TracingConfig

	// Metrics configures metric export.
	Metrics MetricsConfig
}

// TracingConfig configures distributed tracing.
type TracingConfig struct {
	// Enabled enables tracing (default: false).
	Enabled bool

	// Exporter specifies the trace exporter type.
	Exporter ExporterType

	// Endpoint is the OTLP endpoint (e.g., "localhost:4317").
	Endpoint string

	// Insecure disables TLS for the exporter connection.
	Insecure bool

	// SampleRate is the sampling rate (0.0-1.0, default: 1.0).
	SampleRate float64

	// BatchTimeout is the batch export timeout.
	BatchTimeout time.Duration

	// MaxExportBatchSize is the maximum batch size.
	MaxExportBatchSize int

	// Writer receives spans from the stdout exporter. Stdout itself may
	// carry the MCP stream, so the default is stderr.
	Writer io.Writer
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	// Enabled enables metric export (default: false).
	Enabled bool

	// Exporter specifies the metric exporter type.
	Exporter ExporterType

	// Endpoint is the OTLP endpoint (e.g., "localhost:4317").
	Endpoint string

	// Insecure disables TLS for the exporter connection.
	Insecure bool

	// Interval is the periodic export interval.
	Interval time.Duration

	// Writer receives metrics from the stdout exporter (default: stderr).
	Writer io.Writer
}

// ExporterType specifies the telemetry exporter.
type ExporterType string

const (
	// ExporterOTLP exports to OTLP endpoint (e.g., Jaeger, Tempo, Grafana).
	ExporterOTLP ExporterType = "otlp"

	// ExporterStdout exports to a writer (useful for development).
	ExporterStdout ExporterType = "stdout"

	// ExporterNoop disables export (no-op).
	ExporterNoop ExporterType = "noop"
)

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "iagon-agent",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Tracing: TracingConfig{
			Enabled:            false,
			Exporter:           ExporterNoop,
			SampleRate:         1.0,
			BatchTimeout:       5 * time.Second,
			MaxExportBatchSize: 512,
			Writer:             os.Stderr,
		},
		Metrics: MetricsConfig{
			Enabled:  false,
			Exporter: ExporterNoop,
			Interval: time.Minute,
			Writer:   os.Stderr,
		},
	}
}

// Option configures the observability infrastructure.
type Option func(*Config)

// WithServiceName sets the service name.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithServiceVersion sets the service version.
func WithServiceVersion(version string) Option {
	return func(c *Config) {
		c.ServiceVersion = version
	}
}

// WithEnvironment sets the environment.
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithTracing enables tracing with the specified exporter.
func WithTracing(exporter ExporterType, endpoint string) Option {
	return func(c *Config) {
		c.Tracing.Enabled = true
		c.Tracing.Exporter = exporter
		c.Tracing.Endpoint = endpoint
	}
}

// WithTracingInsecure disables TLS for tracing.
func WithTracingInsecure() Option {
	return func(c *Config) {
		c.Tracing.Insecure = true
	}
}

// WithSampleRate sets the trace sampling rate.
func WithSampleRate(rate float64) Option {
	return func(c *Config) {
		c.Tracing.SampleRate = rate
	}
}

// WithStdoutTracing enables tracing to w (for development).
func WithStdoutTracing(w io.Writer) Option {
	return func(c *Config) {
		c.Tracing.Enabled = true
		c.Tracing.Exporter = ExporterStdout
		if w != nil {
			c.Tracing.Writer = w
		}
	}
}

// WithMetrics enables metric export with the specified exporter.
func WithMetrics(exporter ExporterType, endpoint string) Option {
	return func(c *Config) {
		c.Metrics.Enabled = true
		c.Metrics.Exporter = exporter
		c.Metrics.Endpoint = endpoint
	}
}

// WithMetricsInsecure disables TLS for metric export.
func WithMetricsInsecure() Option {
	return func(c *Config) {
		c.Metrics.Insecure = true
	}
}

// WithMetricsInterval sets the periodic export interval.
func WithMetricsInterval(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Metrics.Interval = d
		}
	}
}

// WithStdoutMetrics enables metric export to w (for development).
func WithStdoutMetrics(w io.Writer) Option {
	return func(c *Config) {
		c.Metrics.Enabled = true
		c.Metrics.Exporter = ExporterStdout
		if w != nil {
			c.Metrics.Writer = w
		}
	}
}

// WithWriter directs both stdout exporters to w.
func WithWriter(w io.Writer) Option {
	return func(c *Config) {
		if w != nil {
			c.Tracing.Writer = w
			c.Metrics.Writer = w
		}
	}
}

// FromConfig converts the tracing and metrics sections of the process configuration.
func FromConfig(cfg *config.Config, version string) []Option {
	opts := []Option{
		WithServiceName(cfg.Name),
		WithServiceVersion(version),
		WithSampleRate(cfg.Tracing.SampleRatio()),
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, WithTracing(ExporterType(cfg.Tracing.Exporter), cfg.Tracing.Endpoint))
	}
	if cfg.Tracing.Insecure {
		opts = append(opts, WithTracingInsecure())
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, WithMetrics(ExporterType(cfg.Metrics.Exporter), cfg.Metrics.Endpoint))
	}
	if cfg.Metrics.Insecure {
		opts = append(opts, WithMetricsInsecure())
	}
	opts = append(opts, WithMetricsInterval(time.Duration(cfg.Metrics.IntervalSeconds)*time.Second))
	return opts
}
