// Package logging configures the process-wide logger every ckload command
// writes its progress and per-file result lines to.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds a logger writing to w. "text" renders a human console log for
// interactive runs; anything else emits JSON lines, the format to pick when
// ckload runs from cron and the output lands in a file.
func New(w io.Writer, format string) zerolog.Logger {
	if format == "text" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.TimeOnly,
		}
	}
	return zerolog.New(w).With().Timestamp().Str("tool", "ckload").Logger()
}

// Setup returns the standard logger for a command invocation, on stderr so
// stdout stays free for the summary line.
func Setup(format string) zerolog.Logger {
	return New(os.Stderr, format)
}
