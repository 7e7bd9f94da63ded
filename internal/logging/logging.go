// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the application logger. The TUI owns stdout
// and stderr, so logs go to a file under the data directory; stray
// writes to the terminal would corrupt the rendered frame.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const logFile = "colepa.log"

// maxLogBytes triggers a truncating rotation on startup. One generation
// is kept as colepa.log.old.
const maxLogBytes = 5 << 20

// New creates a file-backed logger at the given level. On any setup
// failure the returned logger discards everything and the client keeps
// running; the cleanup function closes the log file.
func New(dir, level string) (zerolog.Logger, func(), error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, logFile)
	rotate(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := zerolog.New(f).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	return logger, func() { f.Close() }, nil
}

// NewConsole creates a stderr logger for one-shot CLI commands, where
// there is no TUI frame to protect.
func NewConsole(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// rotate moves an oversized log aside so the file never grows without
// bound.
func rotate(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() < maxLogBytes {
		return
	}
	os.Rename(path, path+".old")
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() zerolog.Logger {
	return zerolog.New(io.Discard)
}
