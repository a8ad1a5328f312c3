package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/agent-iagon/application"
	"github.com/felixgeelhaar/agent-iagon/domain/config"
	infraconfig "github.com/felixgeelhaar/agent-iagon/infrastructure/config"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/logging"
	inframw "github.com/felixgeelhaar/agent-iagon/infrastructure/middleware"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/observability"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/storage/memory"
	"github.com/felixgeelhaar/agent-iagon/infrastructure/telemetry"
	"github.com/felixgeelhaar/agent-iagon/pack/iagon"
)

// runtime is everything a command needs, built once from configuration.
type runtime struct {
	config   *config.Config
	registry *memory.ToolRegistry
	invoker  *application.Invoker
	obs      *observability.Provider
}

// loadConfig reads the config file when given, otherwise defaults and the
// environment. Flag overrides are applied last.
func (a *App) loadConfig() (*config.Config, error) {
	var opts []infraconfig.LoaderOption
	if a.opts.envFile != "" {
		opts = append(opts, infraconfig.WithEnvFiles(a.opts.envFile))
	}
	loader := infraconfig.NewLoaderWithOptions(opts...)

	var (
		cfg *config.Config
		err error
	)
	if a.opts.configPath != "" {
		cfg, err = loader.LoadFile(a.opts.configPath)
	} else {
		cfg, err = loader.FromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if a.opts.logLevel != "" {
		cfg.Logging.Level = a.opts.logLevel
	}
	if a.opts.logFormat != "" {
		cfg.Logging.Format = a.opts.logFormat
	}
	return cfg, nil
}

// setup builds the runtime: logging, tracing, metrics, the iagon pack and
// an invoker with the standard middleware chain.
func (a *App) setup() (*runtime, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: a.stderr,
	})

	obsOpts := append(observability.FromConfig(cfg, Version), observability.WithWriter(a.stderr))
	obs, err := observability.New(obsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to set up observability: %w", err)
	}

	metricsConfig := telemetry.DefaultMetricsConfig()
	metricsConfig.MeterVersion = Version
	metricsConfig.MeterProvider = obs.MeterProvider()
	metrics := telemetry.NewMetricsProvider(metricsConfig)
	if err := metrics.Error(); err != nil {
		_ = obs.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	client := iagon.NewClient(iagon.ClientConfig{
		BaseURL:  cfg.Storage.BaseURL,
		APIKey:   cfg.Storage.APIKey,
		Password: cfg.Storage.Password,
	})
	p, err := iagon.New(client, iagon.WithOutcomeRecorder(metrics))
	if err != nil {
		_ = obs.Shutdown(context.Background())
		return nil, err
	}

	registry := memory.NewToolRegistry()
	if err := registry.RegisterPack(p); err != nil {
		_ = obs.Shutdown(context.Background())
		return nil, err
	}

	invoker, err := application.NewInvoker(
		application.WithRegistry(registry),
		application.WithMiddleware(
			observability.TracingMiddlewareFromProvider(obs),
			inframw.Logging(inframw.LoggingConfig{}),
			inframw.Metrics(metrics),
			inframw.Validation(inframw.DefaultValidationConfig()),
		),
	)
	if err != nil {
		_ = obs.Shutdown(context.Background())
		return nil, err
	}

	if cfg.Storage.APIKey == "" {
		logging.Warn().
			Add(logging.Component("cli")).
			Msg("no API key configured; set " + config.EnvAPIKey)
	}

	return &runtime{
		config:   cfg,
		registry: registry,
		invoker:  invoker,
		obs:      obs,
	}, nil
}

// close flushes pending spans and metrics.
func (rt *runtime) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.obs.Shutdown(ctx); err != nil {
		logging.Warn().Add(logging.ErrorField(err)).Msg("observability shutdown failed")
	}
}

// withRuntime runs fn with a freshly built runtime and tears it down after.
func (a *App) withRuntime(fn func(rt *runtime) error) error {
	rt, err := a.setup()
	if err != nil {
		return err
	}
	defer rt.close()
	return fn(rt)
}
