package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/config"
)

// NewLogger builds the application logger for env. With a log file the
// output goes there, otherwise to fallback. The returned func closes the
// file.
func NewLogger(env string, cfg config.LogConfig, fallback io.Writer) (zerolog.Logger, func() error, error) {
	zerolog.TimestampFieldName = "timestamp"
	noop := func() error { return nil }

	level, err := levelFor(env, cfg.Level)
	if err != nil {
		return zerolog.Nop(), noop, err
	}

	w := fallback
	cleanup := noop
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("mkdir log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return zerolog.Nop(), noop, fmt.Errorf("open log file: %w", err)
		}
		w = f
		cleanup = f.Close
	}
	if w == nil {
		w = io.Discard
	}

	if env == config.EnvLocal {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = w
		consoleWriter.NoColor = cfg.File != ""
		w = consoleWriter
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()
	return logger, cleanup, nil
}

func levelFor(env, override string) (zerolog.Level, error) {
	if override != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(override))
		if err != nil {
			return zerolog.NoLevel, fmt.Errorf("log level: %w", err)
		}
		return lvl, nil
	}
	switch env {
	case config.EnvDev:
		return zerolog.DebugLevel, nil
	case config.EnvLocal:
		return zerolog.TraceLevel, nil
	default:
		return zerolog.InfoLevel, nil
	}
}
