// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// KEY HANDLING
// =============================================================================

// handleKey routes a keypress by focus: the sidebar captures navigation
// and filter typing while open; otherwise the input owns the keyboard.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m.quit()
	}

	if m.showSidebar {
		return m.handleSidebarKey(msg)
	}

	switch msg.String() {
	case "enter":
		return m.submit()

	case "esc":
		if m.busy() {
			return m.interruptTurn()
		}
		return m, nil

	case "ctrl+n":
		return m.startNewSession()

	case "ctrl+s":
		m.showSidebar = true
		m.sidebar.Filter = ""
		m.refreshSidebar()
		m.viewport.Width = m.chatWidth()
		m.welcome.SetSize(m.chatWidth(), m.viewport.Height)
		m.syncViewport()
		return m, nil

	case "ctrl+y":
		return m.copyLastAnswer()

	case "ctrl+e":
		return m.exportSession("markdown")

	case "ctrl+j":
		return m.exportSession("json")

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSidebarKey drives session selection. Plain characters feed the
// accent-folded search filter.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+s":
		m.showSidebar = false
		m.sidebar.Filter = ""
		m.refreshSidebar()
		m.viewport.Width = m.chatWidth()
		m.welcome.SetSize(m.chatWidth(), m.viewport.Height)
		m.syncViewport()
		return m, nil

	case "up", "ctrl+p":
		m.sidebar.MoveUp()
		return m, nil

	case "down", "ctrl+n":
		m.sidebar.MoveDown()
		return m, nil

	case "enter":
		if current := m.sidebar.Current(); current != nil {
			return m.switchToSession(current.ID)
		}
		return m, nil

	case "ctrl+d":
		if current := m.sidebar.Current(); current != nil {
			return m.deleteSession(current.ID)
		}
		return m, nil

	case "backspace":
		if m.sidebar.Filter != "" {
			runes := []rune(m.sidebar.Filter)
			m.sidebar.Filter = string(runes[:len(runes)-1])
			m.refreshSidebar()
		}
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		m.sidebar.Filter += string(msg.Runes)
		m.refreshSidebar()
	}
	return m, nil
}
