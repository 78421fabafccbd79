package boardmap

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with boardmap-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPackage adds the package name to the logger.
func (l *Logger) WithPackage(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("package", name),
	}
}

// WithThreshold adds the requested difficulty threshold to the logger.
func (l *Logger) WithThreshold(threshold float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("threshold", threshold),
	}
}

// LogSource logs the outcome of reading the source files.
func (l *Logger) LogSource(ctx context.Context, routes, skipped, unmatched int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "source load failed",
			"error", err,
		)
		return
	}
	if skipped > 0 {
		l.WarnContext(ctx, "routes without embedding skipped",
			"routes", routes,
			"skipped", skipped,
			"unmatched", unmatched,
		)
		return
	}
	l.InfoContext(ctx, "source loaded",
		"routes", routes,
		"unmatched", unmatched,
	)
}

// LogExtract logs the outcome of an extraction.
func (l *Logger) LogExtract(ctx context.Context, effective float64, routes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "extraction failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "extraction completed",
			"effective_threshold", effective,
			"routes", routes,
		)
	}
}

// LogStore logs a package write.
func (l *Logger) LogStore(ctx context.Context, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "package write failed",
			"bytes", bytes,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "package written",
			"bytes", bytes,
		)
	}
}

// LogOpen logs opening a package for exploration.
func (l *Logger) LogOpen(ctx context.Context, routes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "package open failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "package opened",
			"routes", routes,
		)
	}
}
