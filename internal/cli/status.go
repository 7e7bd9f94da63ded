// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
)

// =============================================================================
// STATUS COMMAND
// =============================================================================

// RunStatus handles "colepa status": one backend probe plus the
// effective configuration, for bug reports and quick sanity checks.
func (a *App) RunStatus(parser *ArgParser) int {
	online := a.Client.CheckHealth(context.Background())

	state := "sin conexión"
	if online {
		state = "en línea"
	}

	a.outf("Backend:      %s (%s)\n", a.Cfg.API.BaseURL, state)
	a.outf("Timeout:      %s\n", a.Cfg.API.Timeout())
	a.outf("Datos:        %s\n", a.Cfg.Dir())
	a.outf("Consultas:    %d guardadas\n", a.Store.Len())
	a.outf("Tema:         %s\n", a.Cfg.UI.Theme)
	a.outf("Tipeo:        %v (%d-%d ms)\n",
		a.Cfg.UI.Typewriter, a.Cfg.UI.TypeMinDelayMs, a.Cfg.UI.TypeMaxDelayMs)

	if !online {
		return 1
	}
	return 0
}
