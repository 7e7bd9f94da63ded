// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/BurntSushi/toml"

	"github.com/colepa/colepa-tui/internal/config"
)

// =============================================================================
// CONFIG COMMAND
// =============================================================================

// RunConfig handles "colepa config": show the effective configuration
// or the file path. Editing happens in the file itself; the running
// TUI picks changes up without a restart.
func (a *App) RunConfig(parser *ArgParser) int {
	switch parser.Subcommand() {
	case "", "show":
		enc := toml.NewEncoder(a.Out)
		if err := enc.Encode(a.Cfg); err != nil {
			a.errf("colepa config: %v\n", err)
			return 1
		}
		return 0

	case "path":
		a.outf("%s\n", a.Cfg.Path())
		return 0

	case "init":
		if err := config.Save(a.Cfg); err != nil {
			a.errf("colepa config: %v\n", err)
			return 1
		}
		a.outf("Escrito %s\n", a.Cfg.Path())
		return 0

	default:
		a.errf("colepa config: subcomando desconocido %q\n", parser.Subcommand())
		return 2
	}
}
