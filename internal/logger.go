package internal

import (
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// newLogger builds the process logger. Text output goes through charm's
// console handler; json uses slog's JSON handler.
func newLogger(cfg ApplicationConfig, w io.Writer) *slog.Logger {
	if cfg.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: cfg.LogLevel,
		}))
	}
	return slog.New(charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           charmlog.Level(cfg.LogLevel),
	}))
}
