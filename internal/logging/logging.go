// Package logging configures the process-wide slog logger used for
// diagnostics on stderr. Message output never goes through it.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Level names accepted by the log_level setting and IMSGWATCH_LOG_LEVEL.
const (
	// LevelDebug adds per-poll cursor and row counts.
	LevelDebug = "debug"
	// LevelInfo is the default.
	LevelInfo = "info"
	// LevelWarn hides informational records.
	LevelWarn = "warn"
	// LevelError reports only fatal failures.
	LevelError = "error"
)

// Configure installs a process-wide slog default logger writing text records
// to w.
//
// Supported levels: debug, info, warn, error.
func Configure(w io.Writer, level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parsed})
	slog.SetDefault(slog.New(h))
	return nil
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", LevelInfo:
		return slog.LevelInfo, nil
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", level)
	}
}
