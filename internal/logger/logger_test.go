package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "", want: slog.LevelInfo},
		{input: "info", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestLevel_DebugWins(t *testing.T) {
	t.Setenv("SUPERSCRIPT_LOG_LEVEL", "error")
	assert.Equal(t, slog.LevelDebug, Level(true))
	assert.Equal(t, slog.LevelError, Level(false))
}

func TestNewHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    slog.Level
		visible  []string
		filtered []string
	}{
		{
			name:    "debug shows everything",
			level:   slog.LevelDebug,
			visible: []string{"debug line", "info line", "warn line", "error line"},
		},
		{
			name:     "info hides debug",
			level:    slog.LevelInfo,
			visible:  []string{"info line", "warn line", "error line"},
			filtered: []string{"debug line"},
		},
		{
			name:     "warn hides info",
			level:    slog.LevelWarn,
			visible:  []string{"warn line", "error line"},
			filtered: []string{"debug line", "info line"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := slog.New(NewHandler(&buf, tt.level)).With("component", "test")
			log.Debug("debug line")
			log.Info("info line")
			log.Warn("warn line")
			log.Error("error line", "name", "impacket")

			for _, line := range tt.visible {
				assert.Contains(t, buf.String(), line)
			}
			for _, line := range tt.filtered {
				assert.NotContains(t, buf.String(), line)
			}
			assert.Contains(t, buf.String(), "impacket")
		})
	}
}
