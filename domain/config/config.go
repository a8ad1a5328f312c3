// Package config provides domain models for the tool server configuration.
package config

// DefaultBaseURL is the Iagon storage gateway.
const DefaultBaseURL = "https://gw.iagon.com/api/v2/storage"

// Environment variables consulted when no config file is given.
const (
	EnvAPIKey   = "IAGON_API_KEY"
	EnvPassword = "IAGON_PASSWORD"
	EnvBaseURL  = "IAGON_BASE_URL"
)

// Config is the complete process configuration. It is built once at
// startup and passed by pointer to whatever needs it.
type Config struct {
	// Name identifies this server to MCP clients and telemetry.
	Name string `json:"name" yaml:"name"`

	Storage StorageConfig `json:"storage" yaml:"storage"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	Tracing TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Server  ServerConfig  `json:"server,omitempty" yaml:"server,omitempty"`
}

// StorageConfig holds the remote API endpoint and credentials.
type StorageConfig struct {
	// BaseURL is the storage API root; endpoints are appended to it.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// APIKey is sent in the x-api-key header. It is not validated locally.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// Password protects private uploads when set.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is json or console.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Exporter is otlp, stdout or noop.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP gRPC endpoint (e.g. localhost:4317).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Insecure bool   `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	// SampleRate is the fraction of traces kept, 0.0 to 1.0.
	SampleRate *float64 `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
}

// MetricsConfig configures OpenTelemetry metrics export.
type MetricsConfig struct {
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Exporter is otlp, stdout or noop.
	Exporter string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	// Endpoint is the OTLP gRPC endpoint (e.g. localhost:4317).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Insecure bool   `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	// IntervalSeconds is the export period; pending data is also flushed
	// on shutdown.
	IntervalSeconds int `json:"interval_seconds,omitempty" yaml:"interval_seconds,omitempty"`
}

// ServerConfig configures how the tools are exposed to agent hosts.
type ServerConfig struct {
	// Transport is stdio or http.
	Transport string `json:"transport,omitempty" yaml:"transport,omitempty"`
	// Addr is the listen address for the http transport.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// Default returns a configuration with every optional field filled in.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "iagon-agent"
	}
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = DefaultBaseURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "noop"
	}
	if c.Tracing.SampleRate == nil {
		rate := 1.0
		c.Tracing.SampleRate = &rate
	}
	if c.Metrics.Exporter == "" {
		c.Metrics.Exporter = "noop"
	}
	if c.Metrics.IntervalSeconds == 0 {
		c.Metrics.IntervalSeconds = 60
	}
	if c.Server.Transport == "" {
		c.Server.Transport = "stdio"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// SampleRatio returns the configured sample rate, 1.0 when unset.
func (t TracingConfig) SampleRatio() float64 {
	if t.SampleRate == nil {
		return 1.0
	}
	return *t.SampleRate
}
