// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colepa/colepa-tui/internal/ui/styles"
	"github.com/colepa/colepa-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line: backend availability, the active session
// title, and key hints.
type StatusBar struct {
	Width  int
	Online bool
	Title  string
	Busy   bool
	theme  *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	badge := s.theme.Offline.Render("● sin conexión")
	if s.Online {
		badge = s.theme.Online.Render("● en línea")
	}

	title := util.TruncateWidth(s.Title, s.Width/3)

	hints := s.renderHints()

	left := badge
	if title != "" {
		left += "  " + s.theme.SessionMeta.Render(title)
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(hints) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + hints
	return s.theme.StatusBar.Width(s.Width).Render(line)
}

func (s *StatusBar) renderHints() string {
	type hint struct{ key, desc string }
	hints := []hint{
		{"enter", "enviar"},
		{"ctrl+n", "nueva"},
		{"ctrl+s", "sesiones"},
		{"ctrl+c", "salir"},
	}
	if s.Busy {
		hints = []hint{{"esc", "cancelar"}}
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = s.theme.ShortcutKey.Render(h.key) + " " + s.theme.ShortcutDesc.Render(h.desc)
	}
	return strings.Join(parts, "  ")
}
