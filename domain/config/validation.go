package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

var (
	validLevels     = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	validFormats    = map[string]bool{"json": true, "console": true}
	validExporters  = map[string]bool{"otlp": true, "stdout": true, "noop": true}
	validTransports = map[string]bool{"stdio": true, "http": true}
)

// Validator validates a Config. Credentials are deliberately not checked:
// a missing API key surfaces as a rejection from the remote service.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(cfg *Config) ValidationErrors {
	v.errors = nil

	v.validateStorage(cfg.Storage)
	v.validateLogging(cfg.Logging)
	v.validateTracing(cfg.Tracing)
	v.validateMetrics(cfg.Metrics)
	v.validateServer(cfg.Server)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateStorage(s StorageConfig) {
	if s.BaseURL == "" {
		v.addError("storage.base_url", "base_url is required")
		return
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		v.addError("storage.base_url", fmt.Sprintf("invalid URL: %v", err))
		return
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		v.addError("storage.base_url", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		v.addError("storage.base_url", "host is required")
	}
}

func (v *Validator) validateLogging(l LoggingConfig) {
	if l.Level != "" && !validLevels[strings.ToLower(l.Level)] {
		v.addError("logging.level", fmt.Sprintf("invalid level: %s", l.Level))
	}
	if l.Format != "" && !validFormats[l.Format] {
		v.addError("logging.format", fmt.Sprintf("invalid format: %s", l.Format))
	}
}

func (v *Validator) validateTracing(t TracingConfig) {
	if t.Exporter != "" && !validExporters[t.Exporter] {
		v.addError("tracing.exporter", fmt.Sprintf("invalid exporter: %s", t.Exporter))
	}
	if t.Enabled && t.Exporter == "otlp" && t.Endpoint == "" {
		v.addError("tracing.endpoint", "endpoint is required for the otlp exporter")
	}
	if rate := t.SampleRatio(); rate < 0 || rate > 1 {
		v.addError("tracing.sample_rate", "sample_rate must be between 0 and 1")
	}
}

func (v *Validator) validateMetrics(m MetricsConfig) {
	if m.Exporter != "" && !validExporters[m.Exporter] {
		v.addError("metrics.exporter", fmt.Sprintf("invalid exporter: %s", m.Exporter))
	}
	if m.Enabled && m.Exporter == "otlp" && m.Endpoint == "" {
		v.addError("metrics.endpoint", "endpoint is required for the otlp exporter")
	}
	if m.IntervalSeconds < 0 {
		v.addError("metrics.interval_seconds", "interval_seconds must not be negative")
	}
}

func (v *Validator) validateServer(s ServerConfig) {
	if s.Transport != "" && !validTransports[s.Transport] {
		v.addError("server.transport", fmt.Sprintf("invalid transport: %s", s.Transport))
	}
}
