// Package logging builds the zerolog logger shared by all components.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/jonasrmichel/jup-routes/pkg/config"
)

// Logger is the logger type passed to components.
type Logger = zerolog.Logger

// NewLogger creates a logger writing to stderr.
func NewLogger(cfg config.LoggingSettings) Logger {
	return NewLoggerTo(os.Stderr, cfg)
}

// NewLoggerTo creates a logger writing to out. Unknown levels fall back to
// info.
func NewLoggerTo(out io.Writer, cfg config.LoggingSettings) Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Component tags l with a component name.
func Component(l Logger, name string) Logger {
	return l.With().Str("component", name).Logger()
}
