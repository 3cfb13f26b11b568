package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Config holds logger configuration
type Config struct {
	Level      slog.Level
	JSONFormat bool // JSON for production, text for development
	AddSource  bool // Add source file and line number
	Output     io.Writer
}

// Logger wraps slog.Logger with component scoping
type Logger struct {
	slog *slog.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Initialize configures the global logger. Safe to call once; later
// calls are no-ops.
func Initialize(config Config) {
	once.Do(func() {
		globalLogger = New(config)
		slog.SetDefault(globalLogger.slog)
	})
}

// New creates a logger with the given configuration
func New(config Config) *Logger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.JSONFormat {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{slog: slog.New(handler)}
}

// DefaultConfig returns the standard configuration for the given
// environment: human-readable debug output in dev, JSON at info level
// otherwise.
func DefaultConfig(env string) Config {
	if env == "dev" {
		return Config{Level: slog.LevelDebug, JSONFormat: false, AddSource: true}
	}
	return Config{Level: slog.LevelInfo, JSONFormat: true}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) { l.slog.Info(msg, args...) }

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) { l.slog.Warn(msg, args...) }

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a new logger with additional context
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// Slog exposes the underlying slog.Logger for packages that take one.
func (l *Logger) Slog() *slog.Logger { return l.slog }

// Component returns a component-scoped logger off the global one.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
