package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xraph/keel/internal/errors"
	"github.com/xraph/keel/internal/logger"
)

// Config is the container configuration. Component property values are not
// part of it; they belong to the components themselves.
type Config struct {
	Logging   logger.LoggingConfig `yaml:"logging"`
	Metrics   MetricsConfig        `yaml:"metrics"`
	Tracing   TracingConfig        `yaml:"tracing"`
	Container ContainerConfig      `yaml:"container"`
}

// MetricsConfig controls the Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// TracingConfig controls creation spans.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// ContainerConfig tunes warm-up behaviour.
type ContainerConfig struct {
	Name string `yaml:"name"`

	// EagerInit builds every non-lazy singleton during warm-up.
	EagerInit bool `yaml:"eager_init"`

	// LazyByDefault treats every singleton as lazy unless overridden.
	LazyByDefault bool `yaml:"lazy_by_default"`

	// Lazy overrides the lazy flag per component name.
	Lazy map[string]bool `yaml:"lazy"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Logging: logger.LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "keel",
		},
		Tracing: TracingConfig{
			ServiceName: "keel",
		},
		Container: ContainerConfig{
			Name:      "keel",
			EagerInit: true,
			Lazy:      map[string]bool{},
		},
	}
}

// Load reads and parses a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.ErrConfigError("failed to read config file "+path, err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of Default, expanding ${VAR}, ${VAR:-default}
// and ${VAR-default} references first.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	expanded := ExpandEnv(string(data))
	if strings.TrimSpace(expanded) == "" {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewBufferString(expanded))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.ErrConfigError("failed to decode config", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the decoded values.
func (c Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.ErrConfigError(fmt.Sprintf("unknown log level %q", c.Logging.Level), nil)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "console", "json":
	default:
		return errors.ErrConfigError(fmt.Sprintf("unknown log format %q", c.Logging.Format), nil)
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return errors.ErrConfigError("metrics.namespace is required when metrics are enabled", nil)
	}

	return nil
}

// IsLazy resolves the effective lazy flag for a component.
func (c ContainerConfig) IsLazy(name string, declared bool) bool {
	if v, ok := c.Lazy[name]; ok {
		return v
	}

	return declared || c.LazyByDefault
}

// ExpandEnv substitutes environment references in s.
func ExpandEnv(s string) string {
	return os.Expand(s, func(ref string) string {
		if name, def, ok := strings.Cut(ref, ":-"); ok {
			if v := os.Getenv(name); v != "" {
				return v
			}
			return def
		}

		if name, def, ok := strings.Cut(ref, "-"); ok {
			if v, set := os.LookupEnv(name); set {
				return v
			}
			return def
		}

		return os.Getenv(ref)
	})
}
