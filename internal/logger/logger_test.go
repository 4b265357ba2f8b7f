package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	cases := []struct {
		in    string
		level slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"DBG", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}
	for _, c := range cases {
		level, ok := levelFromString(c.in)
		require.Equal(t, c.level, level, "input %q", c.in)
		require.Equal(t, c.ok, ok, "input %q", c.in)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info("quiet")
	require.Empty(t, buf.String())

	log.Warn("loud", "page", 3)
	require.Contains(t, buf.String(), "loud")
	require.Contains(t, buf.String(), "page=3")
}
