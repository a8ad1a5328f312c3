// Package config provides configuration loading for the iagon tool server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/agent-iagon/domain/config"
)

// Loader loads configuration from files, .env files and the environment.
type Loader struct {
	// ExpandEnv enables environment variable expansion.
	ExpandEnv bool
	// StrictEnv fails if referenced env vars are missing.
	StrictEnv bool
	// Validate enables configuration validation.
	Validate bool
	// EnvFiles are dotenv files consulted after the process environment.
	EnvFiles []string

	// lookup overrides os.LookupEnv, used by tests.
	lookup func(string) (string, bool)
	// dotenv holds values read from EnvFiles.
	dotenv map[string]string
}

// NewLoader creates a new configuration loader with default settings.
func NewLoader() *Loader {
	return &Loader{
		ExpandEnv: true,
		StrictEnv: false,
		Validate:  true,
	}
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithEnvExpansion enables or disables environment variable expansion.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.ExpandEnv = enabled
	}
}

// WithStrictEnv enables strict environment variable checking.
func WithStrictEnv(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.StrictEnv = enabled
	}
}

// WithValidation enables or disables configuration validation.
func WithValidation(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.Validate = enabled
	}
}

// WithEnvFiles sets the dotenv files to read. Missing files are skipped.
func WithEnvFiles(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.EnvFiles = append(l.EnvFiles, paths...)
	}
}

// WithLookup replaces the process environment as the variable source.
func WithLookup(lookup func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.lookup = lookup
	}
}

// NewLoaderWithOptions creates a loader with the specified options.
func NewLoaderWithOptions(opts ...LoaderOption) *Loader {
	l := NewLoader()
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Format represents a configuration file format.
type Format string

const (
	// FormatYAML is the YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is the JSON format.
	FormatJSON Format = "json"
)

// LoadFile loads configuration from a file path.
func (l *Loader) LoadFile(path string) (*config.Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to access config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", config.ErrInvalidFormat, path)
	}

	var format Format
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return l.Load(f, format)
}

// Load loads configuration from a reader.
func (l *Loader) Load(r io.Reader, format Format) (*config.Config, error) {
	if err := l.readEnvFiles(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if l.ExpandEnv {
		expander := &envExpander{strict: l.StrictEnv, lookup: l.get}
		expanded, err := expander.Expand(string(data))
		if err != nil {
			return nil, err
		}
		data = []byte(expanded)
	}

	cfg := &config.Config{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidFormat, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedFormat, format)
	}

	return l.finish(cfg)
}

// LoadString loads configuration from a string.
func (l *Loader) LoadString(content string, format Format) (*config.Config, error) {
	return l.Load(strings.NewReader(content), format)
}

// FromEnv builds configuration from defaults and IAGON_* variables only.
func (l *Loader) FromEnv() (*config.Config, error) {
	if err := l.readEnvFiles(); err != nil {
		return nil, err
	}
	return l.finish(&config.Config{})
}

// finish fills credentials from the environment, applies defaults and validates.
func (l *Loader) finish(cfg *config.Config) (*config.Config, error) {
	l.fillFromEnv(&cfg.Storage)
	cfg.ApplyDefaults()

	if l.Validate {
		if errs := config.NewValidator().Validate(cfg); errs.HasErrors() {
			return nil, fmt.Errorf("%w: %v", config.ErrValidationFailed, errs)
		}
	}
	return cfg, nil
}

// fillFromEnv sets storage fields the file left empty.
func (l *Loader) fillFromEnv(s *config.StorageConfig) {
	if s.APIKey == "" {
		s.APIKey, _ = l.get(config.EnvAPIKey)
	}
	if s.Password == "" {
		s.Password, _ = l.get(config.EnvPassword)
	}
	if s.BaseURL == "" {
		s.BaseURL, _ = l.get(config.EnvBaseURL)
	}
}

// get resolves a variable from the process environment, then dotenv values.
func (l *Loader) get(name string) (string, bool) {
	lookup := l.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(name); ok {
		return v, true
	}
	v, ok := l.dotenv[name]
	return v, ok
}

// readEnvFiles reads EnvFiles once. Earlier files win over later ones.
func (l *Loader) readEnvFiles() error {
	if l.dotenv != nil {
		return nil
	}
	l.dotenv = make(map[string]string)
	for _, path := range l.EnvFiles {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("%w: %s: %v", config.ErrInvalidFormat, path, err)
		}
		for k, v := range values {
			if _, set := l.dotenv[k]; !set {
				l.dotenv[k] = v
			}
		}
	}
	return nil
}
