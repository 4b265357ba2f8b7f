// Package logger configures the process-wide slog default for the CLI.
// Diagnostics go to stderr so they never mix with progress output or
// redirected data.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

func levelFromString(s string) (l slog.Level, ok bool) {
	switch strings.ToLower(s) {
	case "debug", "dbg":
		return slog.LevelDebug, true
	case "info", "inf":
		return slog.LevelInfo, true
	case "warn", "wrn":
		return slog.LevelWarn, true
	case "error", "err":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New builds a text logger at the given level. Unknown level strings fall
// back to info.
func New(w io.Writer, level string) *slog.Logger {
	loglevel, _ := levelFromString(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: loglevel}))
}

// Init installs a stderr text logger as the slog default.
func Init(level string) {
	slog.SetDefault(New(os.Stderr, level))
}
