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
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports a session to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a session to Markdown.
func (e *MarkdownExporter) Export(session *model.Session) ([]byte, error) {
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}
	msgs := exportable(session)
	if len(msgs) == 0 {
		return nil, fmt.Errorf("session has no messages")
	}

	var sb strings.Builder

	// YAML frontmatter with metadata.
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(session.Title)))
		sb.WriteString(fmt.Sprintf("date: %s\n", session.CreatedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("updated: %s\n", session.LastActiveAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("messages: %d\n", len(msgs)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", time.Now().Format(time.RFC3339)))
		sb.WriteString("generator: colepa-tui\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(session.Title)))

	for i, msg := range msgs {
		label := msg.Role.DisplayName()
		if e.options.IncludeTimestamps {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n", label, formatShortTimestamp(msg.Timestamp)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", label))
		}

		// Assistant content already uses markdown emphasis; pass through.
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		if e.options.IncludeMetadata && msg.Metadata != nil {
			if extras := e.formatExtras(msg.Metadata); extras != "" {
				sb.WriteString(extras)
				sb.WriteString("\n")
			}
		}

		if i < len(msgs)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n---\n\n*Exportado de COLEPA el %s*\n",
		time.Now().Format("2006-01-02 15:04")))
	return []byte(sb.String()), nil
}

// formatExtras renders a citation, recommendations, and timing.
func (e *MarkdownExporter) formatExtras(meta *model.Metadata) string {
	var sb strings.Builder

	if line := citationLine(meta.Source); line != "" {
		sb.WriteString(fmt.Sprintf("> **Fuente:** %s\n", line))
	}
	if len(meta.Recommendations) > 0 {
		sb.WriteString("> **Consultas relacionadas:**\n")
		for _, rec := range meta.Recommendations {
			sb.WriteString(fmt.Sprintf("> - %s\n", rec))
		}
	}
	if meta.ProcessingTimeMs > 0 {
		sb.WriteString(fmt.Sprintf("> <sub>Procesado en %s</sub>\n", model.FormatProcessingTime(meta.ProcessingTimeMs)))
	}
	return sb.String()
}

// FileExtension returns ".md".
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML quotes a value when it contains YAML-significant characters.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
