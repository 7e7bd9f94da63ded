// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/glamour"

	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/ui/styles"
)

// =============================================================================
// READING MODE
// =============================================================================

// ReadingRenderer renders a settled answer as full markdown through
// glamour. Used by reading mode, where one answer fills the viewport,
// and by the one-shot CLI output.
type ReadingRenderer struct {
	renderer *glamour.TermRenderer
}

// NewReadingRenderer creates a renderer for the given wrap width.
func NewReadingRenderer(theme *styles.Theme, width int) (*ReadingRenderer, error) {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	return &ReadingRenderer{renderer: r}, nil
}

// Render renders one assistant message, appending the citation line.
func (r *ReadingRenderer) Render(msg *model.Message) (string, error) {
	md := msg.Content
	if msg.Metadata != nil && !msg.Metadata.Source.IsZero() {
		src := msg.Metadata.Source
		md += "\n\n> **Fuente:** " + src.Ley
		if src.ArticuloNumero != "" {
			md += ", Art. " + src.ArticuloNumero.String()
		}
		if src.Titulo != "" {
			md += " (" + src.Titulo + ")"
		}
	}
	return r.renderer.Render(md)
}
