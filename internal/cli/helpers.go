// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"time"

	"github.com/colepa/colepa-tui/internal/config"
	"github.com/colepa/colepa-tui/internal/typewriter"
)

// revealOptions maps the configured pacing onto typewriter options.
func revealOptions(cfg *config.Config) typewriter.Options {
	opts := typewriter.DefaultOptions()
	if cfg.UI.TypeMinDelayMs > 0 {
		opts.MinDelay = time.Duration(cfg.UI.TypeMinDelayMs) * time.Millisecond
	}
	if cfg.UI.TypeMaxDelayMs > 0 {
		opts.MaxDelay = time.Duration(cfg.UI.TypeMaxDelayMs) * time.Millisecond
	}
	return opts
}
