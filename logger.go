package sparse

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with archive-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithName adds the array name field to the logger.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("name", name),
	}
}

// WithArray adds the shape fields of a to the logger.
func (l *Logger) WithArray(a *Array) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			"dtype", a.DType().String(),
			"length", a.Len(),
			"npoints", a.NPoints(),
		),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogSave logs an archive save.
func (l *Logger) LogSave(ctx context.Context, name string, size int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "save completed",
		"name", name,
		"bytes", size,
		"elapsed", elapsed,
	)
}

// LogLoad logs an archive load.
func (l *Logger) LogLoad(ctx context.Context, name string, size int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "load completed",
		"name", name,
		"bytes", size,
		"elapsed", elapsed,
	)
}

// LogDelete logs an archive delete.
func (l *Logger) LogDelete(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "delete completed",
		"name", name,
	)
}

// LogBatch logs the outcome of SaveAll or LoadAll.
func (l *Logger) LogBatch(ctx context.Context, op string, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, op+" completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
		return
	}
	l.InfoContext(ctx, op+" completed",
		"count", count,
	)
}
