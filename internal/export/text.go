// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/colepa/colepa-tui/internal/model"
)

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// TextExporter exports a session as plain UTF-8 text.
type TextExporter struct {
	options *Options
}

// NewTextExporter creates a plain text exporter.
func NewTextExporter(opts *Options) *TextExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &TextExporter{options: opts}
}

// Export renders the session as readable text.
func (e *TextExporter) Export(session *model.Session) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}
	msgs := exportable(session)
	if len(msgs) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	var sb strings.Builder
	sb.WriteString(session.Title + "\n")
	sb.WriteString(strings.Repeat("=", len([]rune(session.Title))) + "\n\n")

	if e.options.IncludeMetadata {
		sb.WriteString(fmt.Sprintf("Creada: %s\n", formatTimestamp(session.CreatedAt)))
		sb.WriteString(fmt.Sprintf("Mensajes: %d\n\n", len(msgs)))
	}

	for _, msg := range msgs {
		label := msg.Role.DisplayName()
		if e.options.IncludeTimestamps {
			label += " [" + formatShortTimestamp(msg.Timestamp) + "]"
		}
		sb.WriteString(label + ":\n")
		sb.WriteString(msg.Content + "\n")

		if e.options.IncludeMetadata && msg.Metadata != nil {
			if line := citationLine(msg.Metadata.Source); line != "" {
				sb.WriteString("Fuente: " + line + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Exportado el %s\n", time.Now().Format("2006-01-02 15:04")))
	return []byte(sb.String()), nil
}

// FileExtension returns ".txt".
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the MIME type for plain text.
func (e *TextExporter) MimeType() string {
	return "text/plain; charset=utf-8"
}

// =============================================================================
// TRANSCRIPT (CLIPBOARD) FORMAT
// =============================================================================

// Transcript renders a session in the compact form used by
// copy-to-clipboard: role labels and content, no metadata.
func Transcript(session *model.Session) string {
	var sb strings.Builder
	for i, msg := range exportable(session) {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(msg.Role.DisplayName() + ": " + msg.Content + "\n")
	}
	return sb.String()
}
