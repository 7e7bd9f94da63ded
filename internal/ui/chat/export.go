// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/colepa/colepa-tui/internal/export"
)

// =============================================================================
// EXPORT AND CLIPBOARD
// =============================================================================

// copyLastAnswer puts the most recent settled answer on the system
// clipboard through the terminal. UNICODE: OSC 52 carries the text
// base64-encoded, so accented Spanish survives any terminal locale.
func (m Model) copyLastAnswer() (Model, tea.Cmd) {
	last := m.conv.Session().LastAssistantMessage()
	if last == nil {
		m.toasts.AddStatus("Todavía no hay respuesta para copiar")
		return m, m.toastTick()
	}

	termenv.Copy(last.Content)
	m.toasts.AddStatus("Respuesta copiada al portapapeles")
	return m, m.toastTick()
}

// exportSession writes the open conversation to a file in the given
// format and reports the path in a toast.
func (m Model) exportSession(format string) (Model, tea.Cmd) {
	session := m.conv.Session()
	if session.IsEmpty() {
		m.toasts.AddStatus("No hay nada para exportar")
		return m, m.toastTick()
	}

	opts := export.DefaultOptions()
	opts.Theme = m.cfg.UI.Theme

	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		m.log.Error().Err(err).Str("format", format).Msg("export format rejected")
		m.toasts.AddError("Formato de exportación desconocido")
		return m, m.toastTick()
	}

	path, err := export.ToFile(session, exporter, opts)
	if err != nil {
		m.log.Error().Err(err).Str("format", format).Msg("export failed")
		m.toasts.AddError("No se pudo exportar la consulta")
		return m, m.toastTick()
	}

	m.log.Info().Str("path", path).Msg("session exported")
	m.toasts.AddStatus("Exportado a " + path)
	return m, m.toastTick()
}
