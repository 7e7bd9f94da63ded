// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/colepa/colepa-tui/internal/api"
	"github.com/colepa/colepa-tui/internal/config"
	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/storage"
)

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"show", "--lines", "50", "--since=2024-01-01", "--json"})

	if p.Subcommand() != "show" {
		t.Errorf("Subcommand() = %q, want show", p.Subcommand())
	}
	if p.Flag("lines") != "50" {
		t.Errorf("Flag(lines) = %q, want 50", p.Flag("lines"))
	}
	if p.Flag("since") != "2024-01-01" {
		t.Errorf("Flag(since) = %q", p.Flag("since"))
	}
	if !p.BoolFlag("json") {
		t.Error("BoolFlag(json) = false, want true")
	}
	if p.IntFlag("lines", 0) != 50 {
		t.Errorf("IntFlag(lines) = %d, want 50", p.IntFlag("lines", 0))
	}
	if p.IntFlag("missing", 7) != 7 {
		t.Error("IntFlag default ignored")
	}
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--legacy=true"})
	if p.BoolFlag("json") {
		t.Error("--json=false parsed as true")
	}
	if !p.BoolFlag("legacy") {
		t.Error("--legacy=true parsed as false")
	}
}

func TestArgParserText(t *testing.T) {
	p := NewArgParser([]string{"¿qué", "dice", "el", "artículo", "10?", "--plain"})
	if got := p.Text(); got != "¿qué dice el artículo 10?" {
		t.Errorf("Text() = %q", got)
	}
	if !p.BoolFlag("plain") {
		t.Error("flag after free text lost")
	}
}

// =============================================================================
// COMMAND DISPATCH TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want Command
	}{
		{"no args opens TUI", nil, CmdTUI},
		{"ask", []string{"ask", "hola"}, CmdAsk},
		{"spanish alias", []string{"preguntar", "hola"}, CmdAsk},
		{"bare question", []string{"¿puedo rescindir?"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"sessions", []string{"sessions", "list"}, CmdSessions},
		{"export", []string{"export"}, CmdExport},
		{"status", []string{"status"}, CmdStatus},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Parse(tt.raw)
			if got != tt.want {
				t.Errorf("Parse(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseBareQuestionKeepsText(t *testing.T) {
	cmd, parser := Parse([]string{"¿qué dice el código?"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if parser.Text() != "¿qué dice el código?" {
		t.Errorf("question lost: %q", parser.Text())
	}
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

func testApp(t *testing.T, backendURL string) (*App, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	log := zerolog.Nop()

	store := storage.NewSessionStore(dir, log)
	store.Load()

	cfg := config.Default()
	cfg.Storage.Dir = dir
	cfg.API.BaseURL = backendURL

	out := &bytes.Buffer{}
	return &App{
		Cfg:    cfg,
		Store:  store,
		Drafts: storage.NewDraftStore(dir, log),
		Client: api.NewClient(backendURL, log),
		Log:    log,
		Out:    out,
	}, out
}

func TestRunAskPlainOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"respuesta":"El contrato es válido.","fuente":{"ley":"Código Civil","articulo_numero":673}}`))
	}))
	defer srv.Close()

	app, out := testApp(t, srv.URL)
	code := app.RunAsk(NewArgParser([]string{"¿es", "válido", "el", "contrato?", "--plain"}))

	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "El contrato es válido.") {
		t.Errorf("answer missing from output: %q", out.String())
	}
	if !strings.Contains(out.String(), "Código Civil, Art. 673") {
		t.Errorf("citation missing from output: %q", out.String())
	}
}

func TestRunAskBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	app, _ := testApp(t, srv.URL)
	code := app.RunAsk(NewArgParser([]string{"hola"}))
	if code != 1 {
		t.Errorf("exit code = %d, want 1 for unreachable backend", code)
	}
}

func TestRunAskMissingQuestion(t *testing.T) {
	app, _ := testApp(t, "http://127.0.0.1:1")
	if code := app.RunAsk(NewArgParser(nil)); code != 2 {
		t.Errorf("exit code = %d, want 2 for usage error", code)
	}
}

func TestRunSessionsLifecycle(t *testing.T) {
	app, out := testApp(t, "http://127.0.0.1:1")

	session := model.NewSession()
	session.Append(model.NewUserMessage("¿cuánto dura la patria potestad?"))
	if err := app.Store.Upsert(session); err != nil {
		t.Fatal(err)
	}

	if code := app.RunSessions(NewArgParser([]string{"list"})); code != 0 {
		t.Fatal("list failed")
	}
	if !strings.Contains(out.String(), session.ID) {
		t.Errorf("list missing session ID: %q", out.String())
	}

	out.Reset()
	if code := app.RunSessions(NewArgParser([]string{"show", session.ID})); code != 0 {
		t.Fatal("show failed")
	}
	if !strings.Contains(out.String(), "patria potestad") {
		t.Errorf("show missing content: %q", out.String())
	}

	out.Reset()
	if code := app.RunSessions(NewArgParser([]string{"search", "cuanto"})); code != 0 {
		t.Fatal("accent-insensitive search failed")
	}
	if !strings.Contains(out.String(), session.ID) {
		t.Errorf("search missed accented title: %q", out.String())
	}

	if code := app.RunSessions(NewArgParser([]string{"delete", session.ID})); code != 0 {
		t.Fatal("delete failed")
	}
	if code := app.RunSessions(NewArgParser([]string{"show", session.ID})); code != 1 {
		t.Error("deleted session still shown")
	}
}

func TestRunExportMostRecent(t *testing.T) {
	app, out := testApp(t, "http://127.0.0.1:1")

	session := model.NewSession()
	session.Append(model.NewUserMessage("consulta para exportar"))
	session.Append(model.NewAssistantMessage("respuesta exportable", nil))
	if err := app.Store.Upsert(session); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	code := app.RunExport(NewArgParser([]string{"--format", "text", "--out", dir}))
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "Exportado a ") {
		t.Errorf("no export path reported: %q", out.String())
	}
}

func TestRunExportEmptyStore(t *testing.T) {
	app, _ := testApp(t, "http://127.0.0.1:1")
	if code := app.RunExport(NewArgParser(nil)); code != 1 {
		t.Error("export with no sessions should fail")
	}
}

func TestRunStatusOffline(t *testing.T) {
	app, out := testApp(t, "http://127.0.0.1:1")
	if code := app.RunStatus(NewArgParser(nil)); code != 1 {
		t.Error("offline status should exit 1")
	}
	if !strings.Contains(out.String(), "sin conexión") {
		t.Errorf("offline state missing: %q", out.String())
	}
}
