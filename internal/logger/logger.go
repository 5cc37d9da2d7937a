// Package logger builds the zerolog root logger shared by the server components.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates the application logger.
// In debug mode the logger writes human-readable console output at debug level;
// otherwise it writes JSON lines at info level.
func New(debug bool) zerolog.Logger {
	return newWithWriter(os.Stdout, debug)
}

func newWithWriter(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "stock-portfolio-analyzer").
		Logger()
}

// Component returns a child logger tagged with the given component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
