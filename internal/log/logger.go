package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger that stamps every record with the component
// that produced it. The attribute is attached to the handler once at
// construction, so the embedded logging methods need no wrapping.
type Logger struct {
	*slog.Logger
	root      slog.Handler
	component string
}

// Config holds logger configuration. Output defaults to stdout and
// Component to "app" when unset.
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
}

// New builds a text logger with the component attribute baked in.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Component == "" {
		cfg.Component = "app"
	}
	root := slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: cfg.Level})
	return &Logger{
		Logger:    slog.New(root).With("component", cfg.Component),
		root:      root,
		component: cfg.Component,
	}
}

// ParseLevel maps a level name from the environment onto a slog level.
// Unrecognized values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a logger carrying extra attributes on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		root:      l.root,
		component: l.component,
	}
}

// WithComponent returns a logger re-scoped to another component. The
// new logger is built from the root handler, so records carry only the
// new component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    slog.New(l.root).With("component", component),
		root:      l.root,
		component: component,
	}
}

// Component returns the component this logger is scoped to.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the logger as the process-wide slog default, so
// package-level slog calls inherit the component attribute.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
