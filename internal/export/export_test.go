// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/colepa/colepa-tui/internal/model"
)

func testSession(t *testing.T) *model.Session {
	t.Helper()
	s := model.NewSession()
	s.Append(model.NewSystemMessage("Bienvenido a COLEPA"))
	s.Append(model.NewUserMessage("¿Qué dice el Código Civil sobre contratos?"))
	s.Append(model.NewAssistantMessage("El **contrato** es un acuerdo de voluntades.\n\n```python\nprint('ejemplo')\n```", &model.Metadata{
		Source:           &model.SourceRef{Ley: "Código Civil", ArticuloNumero: "1234", Titulo: "De los contratos"},
		Recommendations:  []string{"¿Cómo se rescinde un contrato?"},
		ProcessingTimeMs: 1200,
	}))
	return s
}

// =============================================================================
// FORMAT SELECTION TESTS
// =============================================================================

func TestForFormat(t *testing.T) {
	for _, format := range []string{"text", "txt", "markdown", "md", "json", "html"} {
		if _, err := ForFormat(format, nil); err != nil {
			t.Errorf("ForFormat(%q) failed: %v", format, err)
		}
	}
	if _, err := ForFormat("pdf", nil); err == nil {
		t.Error("unknown format accepted")
	}
}

// =============================================================================
// TEXT EXPORT TESTS
// =============================================================================

func TestTextExport(t *testing.T) {
	content, err := NewTextExporter(nil).Export(testSession(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := string(content)

	if !strings.Contains(out, "Tú:") || !strings.Contains(out, "COLEPA:") {
		t.Error("role labels missing")
	}
	if !strings.Contains(out, "Fuente: Código Civil, Art. 1234 (De los contratos)") {
		t.Errorf("citation missing:\n%s", out)
	}
	if strings.Contains(out, "Bienvenido") {
		t.Error("system message leaked into export")
	}
}

func TestTranscript(t *testing.T) {
	out := Transcript(testSession(t))
	if !strings.HasPrefix(out, "Tú: ¿Qué dice el Código Civil") {
		t.Errorf("unexpected transcript start: %q", out[:40])
	}
	if strings.Contains(out, "Sistema") {
		t.Error("system message in transcript")
	}
}

// =============================================================================
// MARKDOWN EXPORT TESTS
// =============================================================================

func TestMarkdownExport(t *testing.T) {
	content, err := NewMarkdownExporter(nil).Export(testSession(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := string(content)

	if !strings.HasPrefix(out, "---\n") {
		t.Error("frontmatter missing")
	}
	if !strings.Contains(out, "**Fuente:** Código Civil, Art. 1234") {
		t.Error("citation missing")
	}
	if !strings.Contains(out, "¿Cómo se rescinde un contrato?") {
		t.Error("recommendations missing")
	}
	if !strings.Contains(out, "```python") {
		t.Error("code fence not preserved")
	}
}

func TestEscapeYAML(t *testing.T) {
	if got := escapeYAML("titulo: con dos puntos"); got != "\"titulo: con dos puntos\"" {
		t.Errorf("escapeYAML = %q", got)
	}
	if got := escapeYAML("simple"); got != "simple" {
		t.Errorf("escapeYAML = %q", got)
	}
}

// =============================================================================
// JSON EXPORT TESTS
// =============================================================================

func TestJSONExportRoundTrips(t *testing.T) {
	s := testSession(t)
	content, err := NewJSONExporter(nil).Export(s)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc struct {
		Session *model.Session `json:"session"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		t.Fatalf("exported JSON not parseable: %v", err)
	}
	if doc.Session.ID != s.ID {
		t.Errorf("session ID = %q, want %q", doc.Session.ID, s.ID)
	}
	// The system message is excluded, the two real ones survive in order.
	if len(doc.Session.Messages) != 2 {
		t.Fatalf("exported %d messages, want 2", len(doc.Session.Messages))
	}
	if doc.Session.Messages[1].Metadata.Source.ArticuloNumero.String() != "1234" {
		t.Error("citation lost in JSON export")
	}
}

// =============================================================================
// HTML EXPORT TESTS
// =============================================================================

func TestHTMLExport(t *testing.T) {
	content, err := NewHTMLExporter(nil).Export(testSession(t))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	out := string(content)

	if !strings.Contains(out, "<strong>contrato</strong>") {
		t.Error("bold not converted")
	}
	if !strings.Contains(out, "class=\"citation\"") {
		t.Error("citation block missing")
	}
	if !strings.Contains(out, "code-block") {
		t.Error("code block missing")
	}
	if strings.Contains(out, "```") {
		t.Error("raw code fence left in HTML output")
	}
}

func TestHTMLEscapesContent(t *testing.T) {
	s := model.NewSession()
	s.Append(model.NewUserMessage(`<script>alert("x")</script>`))
	s.Append(model.NewAssistantMessage("respuesta", nil))

	content, err := NewHTMLExporter(nil).Export(s)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if strings.Contains(string(content), "<script>alert") {
		t.Error("user content not escaped")
	}
}

// =============================================================================
// FILE OUTPUT TESTS
// =============================================================================

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ToFile(testSession(t), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ToFile failed: %v", err)
	}
	if filepath.Ext(path) != ".md" {
		t.Errorf("unexpected extension on %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"consulta simple", "consulta_simple"},
		{"¿vale/esto?", "¿vale-esto-"},
		{"", "consulta"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportEmptySessionFails(t *testing.T) {
	s := model.NewSession()
	exporters := []Exporter{
		NewTextExporter(nil), NewMarkdownExporter(nil), NewJSONExporter(nil), NewHTMLExporter(nil),
	}
	for _, e := range exporters {
		if _, err := e.Export(s); err == nil {
			t.Errorf("%T accepted an empty session", e)
		}
	}
}
