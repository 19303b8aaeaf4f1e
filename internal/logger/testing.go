package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestLogger records every entry in memory so tests can assert on them.
type TestLogger struct {
	Logger

	logs *observer.ObservedLogs
}

// NewTestLogger creates a logger that captures entries at debug level and above.
func NewTestLogger() *TestLogger {
	core, logs := observer.New(zapcore.DebugLevel)

	return &TestLogger{
		Logger: &logger{zap: zap.New(core)},
		logs:   logs,
	}
}

// Messages returns every recorded message with the given level.
func (t *TestLogger) Messages(level zapcore.Level) []string {
	var out []string
	for _, entry := range t.logs.FilterLevelExact(level).All() {
		out = append(out, entry.Message)
	}

	return out
}

// Entries returns every recorded entry with the given message.
func (t *TestLogger) Entries(msg string) []observer.LoggedEntry {
	return t.logs.FilterMessage(msg).All()
}

// Count returns the number of recorded entries.
func (t *TestLogger) Count() int {
	return t.logs.Len()
}
