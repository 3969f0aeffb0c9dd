package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"galaxy-server/internal/shared/config"
)

// Init installs the server's default logger. Packages derive their own with
// slog.With("component", ...).
func Init() {
	if config.GlobalConfig == nil {
		panic("config must be initialized before logger")
	}

	cfg := config.GlobalConfig
	slog.SetDefault(New(cfg.Logging, os.Stdout).With("service", "galaxy-server"))

	slog.Debug("Logger initialized",
		"component", "logger",
		"level", ParseLevel(cfg.Logging.Level),
		"json_format", cfg.Logging.JSONFormat,
		"environment", cfg.Server.Environment,
	)
}

// New builds a logger for cfg writing to w. The CLI and the terminal viewer
// use it to keep log output off stdout and the screen.
func New(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	if cfg.JSONFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel accepts slog level names in any case, including offsets such as
// "info+2". Anything unrecognized logs at debug.
func ParseLevel(levelStr string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(levelStr))); err != nil {
		return slog.LevelDebug
	}
	return level
}
