// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// NewLogger creates the structured logger described by settings,
// writing to w. With format auto, a terminal gets charmbracelet/log's
// human-readable output and anything else (CI, pipes, files) gets
// slog.JSONHandler. The level has already been validated.
//
// Callers scope the logger with command-specific context via With():
//
//	logger := config.NewLogger(settings.Log, os.Stderr).With("command", "db create")
func NewLogger(settings LogSettings, w io.Writer) *slog.Logger {
	level := parseLevel(settings.Level)

	text := settings.Format == "text"
	if settings.Format == "auto" || settings.Format == "" {
		text = isTerminal(w)
	}

	if text {
		handler := log.NewWithOptions(w, log.Options{
			Level:           charmLevel(level),
			ReportTimestamp: true,
			Prefix:          "argot",
		})
		return slog.New(handler)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenLog opens the log destination: settings.File in append mode, or
// fallback when no file is configured. The returned close function is
// never nil.
func OpenLog(settings LogSettings, fallback io.Writer) (io.Writer, func() error, error) {
	if settings.File == "" {
		return fallback, func() error { return nil }, nil
	}
	file, err := os.OpenFile(settings.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, func() error { return nil }, fmt.Errorf("opening log file: %w", err)
	}
	return file, file.Close, nil
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func charmLevel(level slog.Level) log.Level {
	switch {
	case level <= slog.LevelDebug:
		return log.DebugLevel
	case level <= slog.LevelInfo:
		return log.InfoLevel
	case level <= slog.LevelWarn:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
