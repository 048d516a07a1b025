package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Output formats accepted by New.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatConsole = "console"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// New builds a Logger writing to w. "text" and "json" use log/slog handlers,
// "console" uses zerolog's human-readable writer. Unknown formats fall back
// to text and unknown levels to info.
func New(w io.Writer, format, level string) Logger {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatConsole:
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
		zl := zerolog.New(cw).Level(zerologLevel(level)).With().Timestamp().Logger()
		return NewZerologLogger(zl)
	case FormatJSON:
		return newSlog(w, true, level)
	default:
		return newSlog(w, false, level)
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return NewZerologLogger(zerolog.Nop())
}

func zerologLevel(s string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
