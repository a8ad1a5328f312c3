package config_test

import (
	"strings"
	"testing"

	"github.com/felixgeelhaar/agent-iagon/domain/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	if cfg.Name != "iagon-agent" {
		t.Errorf("Name = %s, want iagon-agent", cfg.Name)
	}
	if cfg.Storage.BaseURL != config.DefaultBaseURL {
		t.Errorf("BaseURL = %s, want %s", cfg.Storage.BaseURL, config.DefaultBaseURL)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Tracing.Exporter != "noop" || cfg.Tracing.SampleRatio() != 1.0 {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
	if cfg.Metrics.Enabled || cfg.Metrics.Exporter != "noop" || cfg.Metrics.IntervalSeconds != 60 {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if cfg.Server.Transport != "stdio" || cfg.Server.Addr != ":8080" {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	rate := 0.25
	cfg := &config.Config{
		Name:    "custom",
		Storage: config.StorageConfig{BaseURL: "http://localhost:9000/storage"},
		Tracing: config.TracingConfig{SampleRate: &rate},
		Server:  config.ServerConfig{Transport: "http", Addr: ":9090"},
	}
	cfg.ApplyDefaults()

	if cfg.Name != "custom" || cfg.Storage.BaseURL != "http://localhost:9000/storage" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Tracing.SampleRatio() != 0.25 {
		t.Errorf("SampleRatio() = %v, want 0.25", cfg.Tracing.SampleRatio())
	}
	if cfg.Server.Transport != "http" || cfg.Server.Addr != ":9090" {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestValidator(t *testing.T) {
	t.Parallel()

	negative := -0.5

	tests := []struct {
		name     string
		mutate   func(*config.Config)
		wantPath string
	}{
		{name: "defaults are valid"},
		{
			name:   "missing api key is accepted",
			mutate: func(c *config.Config) { c.Storage.APIKey = "" },
		},
		{
			name:     "relative base url",
			mutate:   func(c *config.Config) { c.Storage.BaseURL = "/storage" },
			wantPath: "storage.base_url",
		},
		{
			name:     "ftp base url",
			mutate:   func(c *config.Config) { c.Storage.BaseURL = "ftp://example.com" },
			wantPath: "storage.base_url",
		},
		{
			name:     "empty base url",
			mutate:   func(c *config.Config) { c.Storage.BaseURL = "" },
			wantPath: "storage.base_url",
		},
		{
			name:     "bad level",
			mutate:   func(c *config.Config) { c.Logging.Level = "loud" },
			wantPath: "logging.level",
		},
		{
			name:     "bad format",
			mutate:   func(c *config.Config) { c.Logging.Format = "xml" },
			wantPath: "logging.format",
		},
		{
			name:     "bad exporter",
			mutate:   func(c *config.Config) { c.Tracing.Exporter = "zipkin" },
			wantPath: "tracing.exporter",
		},
		{
			name: "otlp without endpoint",
			mutate: func(c *config.Config) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = "otlp"
			},
			wantPath: "tracing.endpoint",
		},
		{
			name:     "negative sample rate",
			mutate:   func(c *config.Config) { c.Tracing.SampleRate = &negative },
			wantPath: "tracing.sample_rate",
		},
		{
			name:     "bad metrics exporter",
			mutate:   func(c *config.Config) { c.Metrics.Exporter = "prometheus" },
			wantPath: "metrics.exporter",
		},
		{
			name: "otlp metrics without endpoint",
			mutate: func(c *config.Config) {
				c.Metrics.Enabled = true
				c.Metrics.Exporter = "otlp"
			},
			wantPath: "metrics.endpoint",
		},
		{
			name:     "negative metrics interval",
			mutate:   func(c *config.Config) { c.Metrics.IntervalSeconds = -1 },
			wantPath: "metrics.interval_seconds",
		},
		{
			name:     "bad transport",
			mutate:   func(c *config.Config) { c.Server.Transport = "grpc" },
			wantPath: "server.transport",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			errs := config.NewValidator().Validate(cfg)
			if tt.wantPath == "" {
				if errs.HasErrors() {
					t.Fatalf("Validate() = %v, want no errors", errs)
				}
				return
			}
			if !errs.HasErrors() {
				t.Fatalf("Validate() returned no errors, want %s", tt.wantPath)
			}
			if errs[0].Path != tt.wantPath {
				t.Errorf("Path = %s, want %s", errs[0].Path, tt.wantPath)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	var none config.ValidationErrors
	if none.Error() != "no validation errors" {
		t.Errorf("Error() = %q", none.Error())
	}

	one := config.ValidationErrors{{Path: "a", Message: "bad"}}
	if one.Error() != "a: bad" {
		t.Errorf("Error() = %q, want a: bad", one.Error())
	}

	two := config.ValidationErrors{{Path: "a", Message: "bad"}, {Message: "worse"}}
	if !strings.HasPrefix(two.Error(), "2 validation errors") || !strings.Contains(two.Error(), "worse") {
		t.Errorf("Error() = %q", two.Error())
	}
}
