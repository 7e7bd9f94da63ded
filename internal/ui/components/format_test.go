// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

func tagBold(s string) string   { return "<b>" + s + "</b>" }
func tagItalic(s string) string { return "<i>" + s + "</i>" }

// =============================================================================
// EMPHASIS ORDER TESTS
// =============================================================================

func TestApplyEmphasis(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "el **artículo 5** dice", "el <b>artículo 5</b> dice"},
		{"italic", "según *la doctrina*", "según <i>la doctrina</i>"},
		{"bold and italic", "**ley** y *decreto*", "<b>ley</b> y <i>decreto</i>"},
		{"plain text untouched", "sin énfasis alguno", "sin énfasis alguno"},
		{"crlf normalized", "línea uno\r\nlínea dos", "línea uno\nlínea dos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ApplyEmphasis(tt.in, tagBold, tagItalic); got != tt.want {
				t.Errorf("ApplyEmphasis(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Bold must run before italics. If the italic pass ran first, each "**"
// pair would match as an empty-adjacent italic and mangle the output.
func TestApplyEmphasisOrderSensitive(t *testing.T) {
	got := ApplyEmphasis("**negrita**", tagBold, tagItalic)
	if got != "<b>negrita</b>" {
		t.Errorf("double asterisks mangled: %q", got)
	}

	// A bold span wrapping an italic word keeps both.
	got = ApplyEmphasis("**todo *esto* junto**", tagBold, tagItalic)
	if !strings.Contains(got, "<b>") || !strings.Contains(got, "<i>esto</i>") {
		t.Errorf("nested emphasis broken: %q", got)
	}
}

// =============================================================================
// WORD WRAP TESTS
// =============================================================================

func TestWordWrap(t *testing.T) {
	got := wordWrap("una consulta sobre derecho civil paraguayo", 15)
	for _, line := range strings.Split(got, "\n") {
		if len([]rune(line)) > 15 {
			t.Errorf("line too long: %q", line)
		}
	}
	if strings.ReplaceAll(got, "\n", " ") != "una consulta sobre derecho civil paraguayo" {
		t.Errorf("words lost in wrap: %q", got)
	}
}

func TestWordWrapPreservesNewlines(t *testing.T) {
	got := wordWrap("uno\ndos", 40)
	if got != "uno\ndos" {
		t.Errorf("existing newlines altered: %q", got)
	}
}

func TestWordWrapLongWord(t *testing.T) {
	got := wordWrap("supercalifragilistico", 10)
	lines := strings.Split(got, "\n")
	if len(lines) < 2 {
		t.Fatalf("long word not broken: %q", got)
	}
	for _, line := range lines {
		if len([]rune(line)) > 10 {
			t.Errorf("line too long: %q", line)
		}
	}
}

func TestMaxLineWidth(t *testing.T) {
	if got := maxLineWidth("ab\nabcd\na"); got != 4 {
		t.Errorf("maxLineWidth = %d, want 4", got)
	}
}
