// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colepa/colepa-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME BANNER
// =============================================================================

// WelcomeText is the virtual first message of every new session. It is
// never persisted and never sent to the backend.
const WelcomeText = "¡Bienvenido a COLEPA! Soy tu asistente legal del Paraguay. " +
	"Preguntame sobre el Código Civil, el Código Laboral, el Código Penal y más."

// Welcome renders the startup banner shown before the first question.
type Welcome struct {
	Width  int
	Height int
	theme  *styles.Theme
}

// NewWelcome creates the welcome banner.
func NewWelcome(theme *styles.Theme) *Welcome {
	return &Welcome{Width: 80, Height: 20, theme: theme}
}

// SetSize sets the render dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.Width = width
	w.Height = height
}

// View renders the banner centered in the available space.
func (w *Welcome) View() string {
	title := w.theme.HeaderTitle.Render("COLEPA")
	subtitle := w.theme.HeaderSubtitle.Render("Consultas legales del Paraguay")

	body := wordWrap(WelcomeText, minInt(w.Width-12, 64))

	hints := strings.Join([]string{
		w.theme.ShortcutKey.Render("enter") + w.theme.WelcomeInfo.Render(" envía tu consulta"),
		w.theme.ShortcutKey.Render("ctrl+s") + w.theme.WelcomeInfo.Render(" abre tus consultas anteriores"),
	}, "\n")

	box := w.theme.WelcomeBox.Render(
		title + "\n" + subtitle + "\n\n" + w.theme.WelcomeInfo.Render(body) + "\n\n" + hints,
	)

	// Vertical centering.
	boxLines := strings.Count(box, "\n") + 1
	padTop := (w.Height - boxLines) / 2
	if padTop < 0 {
		padTop = 0
	}
	return strings.Repeat("\n", padTop) + centerBlock(box, w.Width)
}

// centerBlock pads every line of a block to center it horizontally.
func centerBlock(block string, width int) string {
	pad := (width - lipgloss.Width(block)) / 2
	if pad <= 0 {
		return block
	}
	prefix := strings.Repeat(" ", pad)
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
