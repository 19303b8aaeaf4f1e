package keel

import "github.com/xraph/keel/internal/boot"

// Bootstrap contracts.
type (
	Application = boot.Application
	Source      = boot.Source
	SourceFunc  = boot.SourceFunc
	Descriptors = boot.Descriptors
	Runner      = boot.Runner
	StartOption = boot.Option
)

var (
	// Start registers every source, warms the container up and runs every Runner.
	Start               = boot.Start
	WithSources         = boot.WithSources
	WithShutdownSignals = boot.WithShutdownSignals
)
