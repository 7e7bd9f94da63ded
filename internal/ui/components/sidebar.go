// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/ui/styles"
	"github.com/colepa/colepa-tui/internal/util"
)

// =============================================================================
// SESSION SIDEBAR COMPONENT
// =============================================================================

// Sidebar lists saved sessions, newest first, with keyboard selection
// and an accent-folded search filter. ActiveID marks the session that is
// open in the chat, independent of where the cursor is.
type Sidebar struct {
	Sessions []*model.Session
	Selected int
	ActiveID string
	Filter   string
	Width    int
	Height   int
	theme    *styles.Theme
}

// NewSidebar creates a sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{Width: 32, Height: 20, theme: theme}
}

// SetSize sets the render dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetSessions replaces the listed sessions and clamps the selection.
func (s *Sidebar) SetSessions(sessions []*model.Session) {
	s.Sessions = sessions
	if s.Selected >= len(sessions) {
		s.Selected = len(sessions) - 1
	}
	if s.Selected < 0 {
		s.Selected = 0
	}
}

// MoveUp moves the selection up.
func (s *Sidebar) MoveUp() {
	if s.Selected > 0 {
		s.Selected--
	}
}

// MoveDown moves the selection down.
func (s *Sidebar) MoveDown() {
	if s.Selected < len(s.Sessions)-1 {
		s.Selected++
	}
}

// Current returns the selected session, or nil when the list is empty.
func (s *Sidebar) Current() *model.Session {
	if s.Selected < 0 || s.Selected >= len(s.Sessions) {
		return nil
	}
	return s.Sessions[s.Selected]
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	var lines []string
	lines = append(lines, s.theme.HeaderTitle.Render("Consultas"))
	if s.Filter != "" {
		lines = append(lines, s.theme.SessionMeta.Render("/"+s.Filter))
	}
	lines = append(lines, "")

	if len(s.Sessions) == 0 {
		lines = append(lines, s.theme.SessionMeta.Render("Sin consultas guardadas"))
	}

	itemWidth := s.Width - 4
	visible := s.Height - 4
	start := 0
	if s.Selected >= visible {
		start = s.Selected - visible + 1
	}

	for i := start; i < len(s.Sessions) && i < start+visible; i++ {
		session := s.Sessions[i]
		marker := "  "
		if session.ID == s.ActiveID {
			marker = "▸ "
		}
		title := marker + util.TruncateWidth(session.Title, itemWidth-2)
		meta := relativeTime(session.LastActiveAt)
		if n := len(session.Messages); n > 0 {
			if budget := itemWidth - util.RuneLen(meta) - 3; budget > 4 {
				meta += " · " + session.Messages[n-1].Preview(budget)
			}
		}

		if i == s.Selected {
			lines = append(lines, s.theme.SessionItemSelected.Render(title))
		} else {
			lines = append(lines, s.theme.SessionItem.Render(title))
		}
		lines = append(lines, s.theme.SessionMeta.Render("  "+meta))
	}

	return s.theme.Sidebar.
		Width(s.Width).
		Height(s.Height).
		Render(strings.Join(lines, "\n"))
}

// relativeTime renders an activity timestamp the way the sidebar shows
// it: coarse and in Spanish.
func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "ahora"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + " min"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d.Hours())) + " h"
	case d < 48*time.Hour:
		return "ayer"
	default:
		return t.Format("02/01/2006")
	}
}
