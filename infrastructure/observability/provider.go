package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/felixgeelhaar/agent-iagon/domain/middleware"
)

// ErrUnknownExporter is returned for an exporter type New does not know.
var ErrUnknownExporter = errors.New("unknown exporter type")

// Provider manages the observability infrastructure.
type Provider struct {
	config         Config
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	meterProvider  metric.MeterProvider
	metricsEnabled bool
	shutdownFuncs  []func(context.Context) error
}

// New creates a new observability provider. Tracing and metrics are set up
// independently; each one enabled with a real exporter is installed as the
// matching global provider.
func New(opts ...Option) (*Provider, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Provider{
		config:        cfg,
		tracer:        noop.NewTracerProvider().Tracer(cfg.ServiceName),
		meterProvider: metricnoop.NewMeterProvider(),
	}

	// Not merged with resource.Default() to avoid schema URL conflicts.
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	)

	if cfg.Tracing.Enabled {
		if err := p.setupTracing(res); err != nil {
			return nil, err
		}
	}
	if cfg.Metrics.Enabled {
		if err := p.setupMetrics(res); err != nil {
			_ = p.Shutdown(context.Background())
			return nil, err
		}
	}
	return p, nil
}

// setupTracing initializes the tracing infrastructure.
func (p *Provider) setupTracing(res *resource.Resource) error {
	ctx := context.Background()

	var exporter sdktrace.SpanExporter

	switch p.config.Tracing.Exporter {
	case ExporterOTLP:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(p.config.Tracing.Endpoint),
		}
		if p.config.Tracing.Insecure {
			opts = append(opts,
				otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
				otlptracegrpc.WithInsecure(),
			)
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return fmt.Errorf("create otlp exporter: %w", err)
		}
		exporter = exp

	case ExporterStdout:
		exp, err := stdouttrace.New(
			stdouttrace.WithWriter(p.config.Tracing.Writer),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("create stdout exporter: %w", err)
		}
		exporter = exp

	case ExporterNoop:
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownExporter, p.config.Tracing.Exporter)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(p.config.Tracing.BatchTimeout),
			sdktrace.WithMaxExportBatchSize(p.config.Tracing.MaxExportBatchSize),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(p.config.Tracing.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p.tracerProvider = tp
	p.tracer = tp.Tracer(p.config.ServiceName)
	p.shutdownFuncs = append(p.shutdownFuncs, tp.Shutdown)

	return nil
}

// setupMetrics installs an SDK meter provider with a periodic reader over
// the configured exporter.
func (p *Provider) setupMetrics(res *resource.Resource) error {
	ctx := context.Background()

	var exporter sdkmetric.Exporter

	switch p.config.Metrics.Exporter {
	case ExporterOTLP:
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(p.config.Metrics.Endpoint),
		}
		if p.config.Metrics.Insecure {
			opts = append(opts,
				otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
				otlpmetricgrpc.WithInsecure(),
			)
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return fmt.Errorf("create otlp metric exporter: %w", err)
		}
		exporter = exp

	case ExporterStdout:
		exp, err := stdoutmetric.New(
			stdoutmetric.WithWriter(p.config.Metrics.Writer),
			stdoutmetric.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("create stdout metric exporter: %w", err)
		}
		exporter = exp

	case ExporterNoop:
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownExporter, p.config.Metrics.Exporter)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(p.config.Metrics.Interval),
		)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	p.meterProvider = mp
	p.metricsEnabled = true
	p.shutdownFuncs = append(p.shutdownFuncs, mp.Shutdown)

	return nil
}

// sampler maps a rate to a parent-based sampler.
func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case rate <= 0.0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}
}

// Tracer returns the tracer.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are exported anywhere.
func (p *Provider) Enabled() bool {
	return p.tracerProvider != nil
}

// MeterProvider returns the provider metric instruments are created from.
// It records nothing unless metrics are enabled with a real exporter.
func (p *Provider) MeterProvider() metric.MeterProvider {
	return p.meterProvider
}

// MetricsEnabled reports whether metrics are exported anywhere.
func (p *Provider) MetricsEnabled() bool {
	return p.metricsEnabled
}

// Shutdown flushes pending spans and metrics and releases exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// TracingMiddlewareFromProvider creates tracing middleware from a provider.
func TracingMiddlewareFromProvider(p *Provider) middleware.Middleware {
	return TracingMiddleware(p.Tracer())
}

// NewNoopProvider creates a provider whose tracer records nothing.
func NewNoopProvider() *Provider {
	cfg := DefaultConfig()
	return &Provider{
		config:        cfg,
		tracer:        noop.NewTracerProvider().Tracer(cfg.ServiceName),
		meterProvider: metricnoop.NewMeterProvider(),
	}
}
