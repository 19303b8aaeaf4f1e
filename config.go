package keel

import "github.com/xraph/keel/internal/config"

// Config is the container configuration.
type (
	Config          = config.Config
	MetricsConfig   = config.MetricsConfig
	TracingConfig   = config.TracingConfig
	ContainerConfig = config.ContainerConfig
)

var (
	DefaultConfig = config.Default
	LoadConfig    = config.Load
	ParseConfig   = config.Parse
)
