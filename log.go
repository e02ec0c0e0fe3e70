package tally

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// logger is silent until SetLogger is called.
var logger = zerolog.Nop()

// SetLogger sets the logger used by the package.
func SetLogger(l zerolog.Logger) { logger = l }

// NewLogger returns a console logger writing to w at level ("trace",
// "debug", "info", "warn" or "error"; anything else means "info").
func NewLogger(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(lvl).With().Timestamp().Logger()
}
