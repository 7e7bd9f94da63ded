// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message with its role label, timestamp, and
// for assistant answers the citation and follow-up recommendations.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	theme         *styles.Theme
}

// NewMessageBubble creates a message bubble.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		theme:         theme,
	}
}

// SetWidth sets the available render width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUser()
	case model.RoleAssistant:
		return b.renderAssistant()
	default:
		return b.renderSystem()
	}
}

func (b *MessageBubble) contentWidth() int {
	w := b.Width - 12
	if w < 20 {
		w = 20
	}
	return w
}

func (b *MessageBubble) renderUser() string {
	wrapped := wordWrap(b.Message.Content, b.contentWidth())
	bubble := b.theme.UserBubble.
		Width(minInt(maxLineWidth(wrapped)+4, b.Width-8)).
		Render(wrapped)

	header := b.theme.RoleUser.Render(b.Message.Role.DisplayName())
	if b.ShowTimestamp {
		header += " " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
	}
	return header + "\n" + bubble
}

func (b *MessageBubble) renderAssistant() string {
	content := FormatContent(b.Message.Content, b.theme)
	if b.Message.IsDraft() {
		content += "▌"
	}
	wrapped := wordWrap(content, b.contentWidth())

	sections := []string{wrapped}
	// Extras render only once the reveal has settled.
	if !b.Message.IsDraft() && b.Message.Metadata != nil {
		if cite := b.renderCitation(b.Message.Metadata); cite != "" {
			sections = append(sections, cite)
		}
		if recs := b.renderRecommendations(b.Message.Metadata); recs != "" {
			sections = append(sections, recs)
		}
		if b.Message.Metadata.ProcessingTimeMs > 0 {
			sections = append(sections,
				b.theme.ProcessingTime.Render(model.FormatProcessingTime(b.Message.Metadata.ProcessingTimeMs)))
		}
	}

	bubble := b.theme.AssistantBubble.
		Width(minInt(b.Width-8, maxLineWidth(strings.Join(sections, "\n"))+4)).
		Render(strings.Join(sections, "\n\n"))

	header := b.theme.RoleAssistant.Render(b.Message.Role.DisplayName())
	if b.ShowTimestamp && !b.Message.IsDraft() {
		header += " " + b.theme.Timestamp.Render(b.Message.Timestamp.Format("15:04"))
	}
	return header + "\n" + bubble
}

func (b *MessageBubble) renderSystem() string {
	wrapped := wordWrap(b.Message.Content, b.contentWidth())
	return b.theme.SystemBubble.Render(wrapped)
}

// renderCitation renders the structured legal source.
func (b *MessageBubble) renderCitation(meta *model.Metadata) string {
	if meta.Source.IsZero() {
		return ""
	}
	src := meta.Source

	var sb strings.Builder
	sb.WriteString(b.theme.CitationLabel.Render("Fuente: "))
	sb.WriteString(src.Ley)
	if src.ArticuloNumero != "" {
		sb.WriteString(", Art. " + src.ArticuloNumero.String())
	}
	if src.Titulo != "" {
		sb.WriteString(" (" + src.Titulo + ")")
	}
	return b.theme.Citation.Render(sb.String())
}

// renderRecommendations renders follow-up question suggestions.
func (b *MessageBubble) renderRecommendations(meta *model.Metadata) string {
	if len(meta.Recommendations) == 0 {
		return ""
	}
	lines := make([]string, 0, len(meta.Recommendations)+1)
	lines = append(lines, b.theme.SessionMeta.Render("Consultas relacionadas:"))
	for _, rec := range meta.Recommendations {
		lines = append(lines, b.theme.Recommendation.Render("• "+rec))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
