package keel

import "github.com/xraph/keel/internal/logger"

// Re-export logger interfaces
type (
	Logger        = logger.Logger
	Field         = logger.Field
	LoggingConfig = logger.LoggingConfig
)

// Re-export logger constructors
var (
	NewLogger            = logger.NewLogger
	NewDevelopmentLogger = logger.NewDevelopmentLogger
	NewProductionLogger  = logger.NewProductionLogger
	NewNoopLogger        = logger.NewNoopLogger
)

// Re-export field constructors
var (
	String   = logger.String
	Int      = logger.Int
	Int64    = logger.Int64
	Bool     = logger.Bool
	Duration = logger.Duration
	Err      = logger.Error
	Strings  = logger.Strings
	Any      = logger.Any
)
