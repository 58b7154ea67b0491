// Package logging provides the structured logger used across pulpe.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger to provide a consistent interface.
type Logger struct {
	zerolog.Logger
}

// ParseLevel maps a config level name to a zerolog level. Unknown names
// fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a console logger on stderr with the specified level.
func NewLogger(level string) *Logger {
	return NewConsoleLogger(level, os.Stderr)
}

// NewConsoleLogger creates a human-readable logger writing to w.
func NewConsoleLogger(level string, w io.Writer) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return &Logger{Logger: zerolog.New(output).Level(ParseLevel(level)).With().Timestamp().Logger()}
}

// NewLoggerWithOutput creates a JSON logger writing to w.
func NewLoggerWithOutput(level string, w io.Writer) *Logger {
	return &Logger{Logger: zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()}
}

// NewSilentLogger creates a logger that discards all output.
func NewSilentLogger() *Logger {
	return &Logger{Logger: zerolog.New(io.Discard)}
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With().Str("component", component).Logger()}
}
