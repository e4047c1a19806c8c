// Package logger configures the process wide slog logger on top of zap.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/superscript-dev/superscript/internal/config"
)

// zapDebugLevel is the zap level zapr uses for slog debug records (logr V(4))
const zapDebugLevel = zapcore.Level(-4)

// Level parses the SUPERSCRIPT_LOG_LEVEL environment variable and returns the corresponding slog.Level.
// Falls back to LOG_LEVEL. Defaults to slog.LevelInfo if neither is set or if the value is invalid.
// debug forces slog.LevelDebug.
func Level(debug bool) slog.Level {
	if debug {
		return slog.LevelDebug
	}

	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	levelStr := v.GetString("LOG_LEVEL")
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}

	return ParseLevel(levelStr)
}

// ParseLevel converts a level name to a slog.Level
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("Invalid LOG_LEVEL, using INFO", "value", levelStr)
		return slog.LevelInfo
	}
}

// NewHandler returns an slog handler writing console encoded zap entries to w
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""

	zapMin := zapcore.InfoLevel
	if level < slog.LevelInfo {
		zapMin = zapDebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zapMin,
	)

	return &levelHandler{
		Handler: logr.ToSlogHandler(zapr.NewLogger(zap.New(core))),
		level:   level,
	}
}

// Setup installs a stderr handler as the slog default
func Setup(debug bool) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, Level(debug))))
}

// levelHandler drops records below level. logr has no warning level, so zap sees
// warnings and infos alike and cannot filter between them.
type levelHandler struct {
	slog.Handler
	level slog.Level
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level && h.Handler.Enabled(ctx, level)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithAttrs(attrs), level: h.level}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{Handler: h.Handler.WithGroup(name), level: h.level}
}
