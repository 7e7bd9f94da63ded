// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"

	"github.com/colepa/colepa-tui/internal/export"
	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/storage"
)

// =============================================================================
// EXPORT COMMAND
// =============================================================================

// RunExport handles "colepa export": write one stored session to a
// file. Without --session the most recent session is exported.
func (a *App) RunExport(parser *ArgParser) int {
	session, code := a.resolveSession(parser.Flag("session"))
	if session == nil {
		return code
	}

	opts := export.DefaultOptions()
	opts.Theme = a.Cfg.UI.Theme
	if dir := parser.Flag("out"); dir != "" {
		opts.OutputDir = dir
	}

	format := parser.FlagOr("format", "markdown")
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		a.errf("colepa export: formato desconocido %q (text, json, markdown, html)\n", format)
		return 2
	}

	path, err := export.ToFile(session, exporter, opts)
	if err != nil {
		a.errf("colepa export: %v\n", err)
		a.Log.Error().Err(err).Str("format", format).Msg("export failed")
		return 1
	}

	a.outf("Exportado a %s\n", path)
	return 0
}

// resolveSession picks the session to export: by ID, or the newest.
func (a *App) resolveSession(id string) (*model.Session, int) {
	if id != "" {
		session, err := a.Store.Get(id)
		if err != nil {
			if errors.Is(err, storage.ErrSessionNotFound) {
				a.errf("colepa export: no existe %s\n", id)
				return nil, 1
			}
			a.errf("colepa export: %v\n", err)
			return nil, 1
		}
		return session, 0
	}

	sessions := a.Store.List()
	if len(sessions) == 0 {
		a.errf("colepa export: no hay consultas guardadas\n")
		return nil, 1
	}
	return sessions[0], 0
}
