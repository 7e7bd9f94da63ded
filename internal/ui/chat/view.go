// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/ui/components"
)

// sidebarWidth is the fixed width of the session list.
const sidebarWidth = 32

// chromeHeight is the vertical space taken by everything that is not
// the transcript: header, thinking line, input area, and status bar.
const chromeHeight = 7

// =============================================================================
// VIEW
// =============================================================================

// View renders the full screen.
func (m Model) View() string {
	if !m.ready {
		return "Iniciando..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	content := m.viewport.View()
	if m.showWelcome() {
		content = m.welcome.View()
	}
	if m.showSidebar {
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), content)
	}
	b.WriteString(content)
	b.WriteString("\n")

	b.WriteString(m.renderThinking())
	b.WriteString("\n")

	if m.toasts.HasToasts() {
		b.WriteString(m.toasts.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.status.View())

	return b.String()
}

// showWelcome reports whether the banner replaces the transcript.
func (m Model) showWelcome() bool {
	return m.conv.Session().IsEmpty() && m.draft == nil && !m.busy()
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("COLEPA")
	subtitle := m.theme.HeaderSubtitle.Render(" · Consultas legales del Paraguay")
	return m.theme.Header.Width(m.width).Render(title + subtitle)
}

// renderThinking shows the spinner while the backend is working.
func (m Model) renderThinking() string {
	if m.conv.Turn() != model.TurnAwaitingResponse {
		return ""
	}
	return " " + m.spin.View() + m.theme.ThinkingText.Render(" COLEPA está pensando...")
}

// renderInput draws the input box with the character budget and, while
// a turn is active, the reason sending is disabled.
func (m Model) renderInput() string {
	line := m.input.View()

	var note string
	switch {
	case m.busy():
		note = m.theme.SendDisabled.Render("esperá la respuesta para enviar otra consulta")
	default:
		note = m.charCountView()
	}

	gap := m.width - lipgloss.Width(line) - lipgloss.Width(note) - 4
	if gap < 1 {
		return m.theme.InputContainer.Width(m.width).Render(line + "\n" + note)
	}
	return m.theme.InputContainer.Width(m.width).
		Render(line + strings.Repeat(" ", gap) + note)
}

// charCountView renders used/budget, escalating the style as the limit
// approaches.
func (m Model) charCountView() string {
	used := len([]rune(m.input.Value()))
	text := strconv.Itoa(used) + "/" + strconv.Itoa(model.MaxInputRunes)

	switch {
	case used >= model.MaxInputRunes:
		return m.theme.CharCountDanger.Render(text)
	case used >= model.MaxInputRunes-200:
		return m.theme.CharCountWarning.Render(text)
	default:
		return m.theme.CharCount.Render(text)
	}
}

// syncViewport rebuilds the transcript content and scrolls to the
// bottom. Called after anything that changes the visible messages.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}

	width := m.chatWidth()
	var parts []string
	for _, msg := range m.conv.Session().Messages {
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.Width = width
		parts = append(parts, bubble.View())
	}
	if m.draft != nil {
		bubble := components.NewMessageBubble(m.draft, m.theme)
		bubble.Width = width
		parts = append(parts, bubble.View())
	}

	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()
}
