// Package logger provides structured logging for the game server.
// Every transition the engine applies is traceable through Event.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger provides structured logging with context.
type Logger struct {
	z *zap.Logger
}

// NewLogger creates a production logger at info level. It falls back to a
// no-op logger if zap cannot build its sinks.
func NewLogger() *Logger {
	l, err := New("info")
	if err != nil {
		return NewNop()
	}
	return l
}

// New builds a JSON production logger at the given level.
func New(level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	z, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{z: z}, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop()}
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{z: z}
}

// With returns a child logger carrying fields on every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{z: l.z.With(fields...)}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.z
}

// Debug logs verbose diagnostics.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.z.Debug(msg, fields...)
}

// Info logs informational messages.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.z.Info(msg, fields...)
}

// Warn logs warning messages.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.z.Warn(msg, fields...)
}

// Error logs error messages.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.z.Error(msg, fields...)
}

// Event logs a game transition under a fixed message so entries can be
// filtered by event_type.
func (l *Logger) Event(eventType string, actorID string, details string, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String("event_type", eventType),
		zap.String("actor_id", actorID),
		zap.String("details", details),
	}, fields...)
	l.z.Info("game event", all...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}
