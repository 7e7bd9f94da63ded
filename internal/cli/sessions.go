// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"strings"

	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/storage"
	"github.com/colepa/colepa-tui/internal/util"
)

// =============================================================================
// SESSIONS COMMAND
// =============================================================================

// RunSessions handles "colepa sessions": list, show, search, delete.
func (a *App) RunSessions(parser *ArgParser) int {
	switch parser.Subcommand() {
	case "", "list":
		return a.listSessions(a.Store.List())

	case "show":
		id := strings.Join(parser.Positional(), " ")
		if id == "" {
			a.errf("colepa sessions show: falta el ID\n")
			return 2
		}
		return a.showSession(id)

	case "search", "buscar":
		query := strings.Join(parser.Positional(), " ")
		if query == "" {
			a.errf("colepa sessions search: falta el texto\n")
			return 2
		}
		return a.listSessions(a.Store.SearchSessions(query))

	case "delete", "borrar":
		id := strings.Join(parser.Positional(), " ")
		if id == "" {
			a.errf("colepa sessions delete: falta el ID\n")
			return 2
		}
		if err := a.Store.Remove(id); err != nil {
			if errors.Is(err, storage.ErrSessionNotFound) {
				a.errf("colepa sessions: no existe %s\n", id)
				return 1
			}
			a.errf("colepa sessions: %v\n", err)
			return 1
		}
		a.outf("Borrada %s\n", id)
		return 0

	default:
		a.errf("colepa sessions: subcomando desconocido %q\n", parser.Subcommand())
		return 2
	}
}

func (a *App) listSessions(sessions []*model.Session) int {
	if len(sessions) == 0 {
		a.outf("Sin consultas guardadas.\n")
		return 0
	}
	for _, s := range sessions {
		a.outf("%s  %s  (%d mensajes, %s)\n",
			util.PadWidth(s.ID, 22), s.Title, s.MessageCount(),
			s.LastActiveAt.Format("02/01/2006 15:04"))
	}
	return 0
}

func (a *App) showSession(id string) int {
	session, err := a.Store.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			a.errf("colepa sessions: no existe %s\n", id)
			return 1
		}
		a.errf("colepa sessions: %v\n", err)
		return 1
	}

	a.outf("%s\n%s\n\n", session.Title, strings.Repeat("=", len([]rune(session.Title))))
	for _, msg := range session.Messages {
		a.outf("[%s] %s\n", msg.Timestamp.Format("15:04"), msg.Role.DisplayName())
		a.outf("%s\n\n", msg.Content)
	}
	return 0
}
