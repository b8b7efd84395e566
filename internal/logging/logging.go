// Package logging builds the process logger.
package logging

import (
	"io"
	stdlog "log"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a leveled logger writing to w. Unknown levels fall back to
// info and unknown formats to text.
func New(w io.Writer, level, format string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       parseFormatter(format),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel parses a string log level to a charmbracelet/log Level.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func parseFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Standard adapts l to a standard library logger for components that only
// accept *log.Logger, such as chi's request logger.
func Standard(l *log.Logger) *stdlog.Logger {
	return l.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel})
}
