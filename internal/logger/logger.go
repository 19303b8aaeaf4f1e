package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger represents the logging interface used across the container.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)

	With(fields ...Field) Logger
	Named(name string) Logger

	Sync() error
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Environment selects the encoder: "production" forces JSON output.
	Environment string `yaml:"environment"`
}

// logger implements the Logger interface using zap
type logger struct {
	zap *zap.Logger
}

// noopLogger implements Logger interface but does nothing
type noopLogger struct{}

// NewLogger creates a new logger with the given configuration.
func NewLogger(config LoggingConfig) Logger {
	level := ParseLevel(config.Level)

	if config.Environment == "production" || config.Format == "json" {
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)

		zapLogger, err := zapConfig.Build(zap.AddCallerSkip(1))
		if err != nil {
			return NewNoopLogger()
		}

		return &logger{zap: zapLogger}
	}

	return &logger{zap: createDevelopmentLogger(level)}
}

// NewDevelopmentLogger creates a development logger with colors.
func NewDevelopmentLogger() Logger {
	return &logger{zap: createDevelopmentLogger(zapcore.DebugLevel)}
}

// NewProductionLogger creates a production logger.
func NewProductionLogger() Logger {
	return NewLogger(LoggingConfig{Level: "info", Environment: "production"})
}

// NewNoopLogger creates a logger that does nothing.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	if z == nil {
		return NewNoopLogger()
	}

	return &logger{zap: z}
}

// ParseLevel maps a textual level to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func createDevelopmentLogger(level zapcore.Level) *zap.Logger {
	return zap.New(developmentCore(level, zapcore.AddSync(os.Stdout)), zap.AddCaller(), zap.AddCallerSkip(1))
}

// developmentCore writes colored console lines to out.
func developmentCore(level zapcore.Level, out zapcore.WriteSyncer) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), out, zap.NewAtomicLevelAt(level))
}

func (l *logger) Debug(msg string, fields ...Field) {
	l.zap.Debug(msg, FieldsToZap(fields)...)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.zap.Info(msg, FieldsToZap(fields)...)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.zap.Warn(msg, FieldsToZap(fields)...)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.zap.Error(msg, FieldsToZap(fields)...)
}

func (l *logger) Debugf(template string, args ...any) {
	l.zap.Debug(fmt.Sprintf(template, args...))
}

func (l *logger) Infof(template string, args ...any) {
	l.zap.Info(fmt.Sprintf(template, args...))
}

func (l *logger) Warnf(template string, args ...any) {
	l.zap.Warn(fmt.Sprintf(template, args...))
}

func (l *logger) Errorf(template string, args ...any) {
	l.zap.Error(fmt.Sprintf(template, args...))
}

func (l *logger) With(fields ...Field) Logger {
	return &logger{zap: l.zap.With(FieldsToZap(fields)...)}
}

func (l *logger) Named(name string) Logger {
	return &logger{zap: l.zap.Named(name)}
}

func (l *logger) Sync() error {
	return l.zap.Sync()
}

func (l *noopLogger) Debug(msg string, fields ...Field) {}
func (l *noopLogger) Info(msg string, fields ...Field)  {}
func (l *noopLogger) Warn(msg string, fields ...Field)  {}
func (l *noopLogger) Error(msg string, fields ...Field) {}
func (l *noopLogger) Debugf(template string, args ...any) {}
func (l *noopLogger) Infof(template string, args ...any)  {}
func (l *noopLogger) Warnf(template string, args ...any)  {}
func (l *noopLogger) Errorf(template string, args ...any) {}
func (l *noopLogger) With(fields ...Field) Logger         { return l }
func (l *noopLogger) Named(name string) Logger            { return l }
func (l *noopLogger) Sync() error                         { return nil }
