// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelFor maps a -v count to a log level: up to one -v is info, up to
// four is debug and anything more is trace.
func LevelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity >= 5:
		return zerolog.TraceLevel
	case verbosity >= 2:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// Init installs a console logger on stderr as the global logger.
func Init(verbosity int) {
	InitTo(os.Stderr, verbosity)
}

// InitTo is Init with a chosen writer.
func InitTo(w io.Writer, verbosity int) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(LevelFor(verbosity))

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}

// NewLogger returns the global logger when no writer is given, and
// otherwise a JSON logger that writes to every writer.
func NewLogger(writers ...io.Writer) zerolog.Logger {
	switch len(writers) {
	case 0:
		return log.Logger
	case 1:
		return zerolog.New(writers[0]).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

// WithComponent derives a logger from the global one that tags each
// entry with the component name.
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
