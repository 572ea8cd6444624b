package telemetry

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// LoggerConfig controls the process logger.
type LoggerConfig struct {
	ServiceName    string
	ServiceVersion string
	Level          zerolog.Level
	// Console switches to human readable output.
	Console bool
}

// NewLogger creates the process logger writing to w.
func NewLogger(w io.Writer, cfg LoggerConfig) zerolog.Logger {
	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(cfg.Level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("version", cfg.ServiceVersion).
		Logger()
}
