// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colepa/colepa-tui/internal/ui/styles"
)

// =============================================================================
// INLINE EMPHASIS FORMATTING
// =============================================================================

var (
	boldRegex   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRegex = regexp.MustCompile(`\*(.+?)\*`)
)

// ApplyEmphasis converts the light markdown emphasis used in answers.
// The passes are order-sensitive: bold runs before italics so a "**x**"
// span is consumed whole and its asterisk pairs never half-match as
// italics, and line endings are normalized last.
func ApplyEmphasis(content string, bold, italic func(string) string) string {
	content = boldRegex.ReplaceAllStringFunc(content, func(match string) string {
		return bold(strings.TrimSuffix(strings.TrimPrefix(match, "**"), "**"))
	})
	content = italicRegex.ReplaceAllStringFunc(content, func(match string) string {
		return italic(strings.TrimSuffix(strings.TrimPrefix(match, "*"), "*"))
	})
	return strings.ReplaceAll(content, "\r\n", "\n")
}

// FormatContent renders answer emphasis with terminal styling.
func FormatContent(content string, theme *styles.Theme) string {
	boldStyle := lipgloss.NewStyle().Bold(true)
	italicStyle := lipgloss.NewStyle().Italic(true)
	return ApplyEmphasis(content,
		func(s string) string { return boldStyle.Render(s) },
		func(s string) string { return italicStyle.Render(s) },
	)
}

// =============================================================================
// LAYOUT HELPERS
// =============================================================================

// wordWrap wraps text at word boundaries to the given width. Existing
// newlines are respected; words longer than the width are broken hard.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
		currentLen = 0
	}

	for _, word := range words {
		runes := []rune(word)
		for len(runes) > width {
			if currentLen > 0 {
				flush()
			}
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		word = string(runes)
		wordLen := len(runes)
		if wordLen == 0 {
			continue
		}

		if currentLen == 0 {
			current.WriteString(word)
			currentLen = wordLen
		} else if currentLen+1+wordLen <= width {
			current.WriteByte(' ')
			current.WriteString(word)
			currentLen += 1 + wordLen
		} else {
			flush()
			current.WriteString(word)
			currentLen = wordLen
		}
	}
	if currentLen > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// maxLineWidth returns the rune width of the longest line.
func maxLineWidth(text string) int {
	max := 0
	for _, line := range strings.Split(text, "\n") {
		if n := len([]rune(line)); n > max {
			max = n
		}
	}
	return max
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
