// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/colepa/colepa-tui/internal/api"
	"github.com/colepa/colepa-tui/internal/config"
	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/storage"
)

func testModel(t *testing.T) Model {
	t.Helper()
	dir := t.TempDir()
	log := zerolog.Nop()

	store := storage.NewSessionStore(dir, log)
	store.Load()
	drafts := storage.NewDraftStore(dir, log)

	cfg := config.Default()
	cfg.Storage.Dir = dir

	client := api.NewClient("http://127.0.0.1:1", log)
	return New(cfg, store, drafts, client, nil, log)
}

// completeTurn runs a submitted turn to a committed answer without the
// word-by-word reveal.
func completeTurn(t *testing.T, m Model, answer string) Model {
	t.Helper()
	m.cfg.UI.Typewriter = false
	updated, _ := m.Update(ConsultaResultMsg{
		TurnID:   m.turnID,
		Response: &api.ConsultaResponse{Respuesta: answer},
	})
	return updated.(Model)
}

// =============================================================================
// TURN STATE MACHINE TESTS
// =============================================================================

func TestSubmitStartsTurn(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("¿qué dice el código civil sobre contratos?")

	m, cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit returned no command")
	}
	if got := m.conv.Turn(); got != model.TurnAwaitingResponse {
		t.Errorf("turn = %v, want awaiting_response", got)
	}
	if m.conv.Session().MessageCount() != 1 {
		t.Errorf("message count = %d, want 1", m.conv.Session().MessageCount())
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
}

func TestSubmitWhileBusyIsNoOp(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("primera consulta")
	m, _ = m.submit()

	count := m.conv.Session().MessageCount()
	turnID := m.turnID

	m.input.SetValue("segunda consulta")
	m, _ = m.submit()

	if m.conv.Session().MessageCount() != count {
		t.Errorf("busy submit appended a message")
	}
	if m.turnID != turnID {
		t.Errorf("busy submit started a new turn")
	}
	if got := m.conv.Turn(); got != model.TurnAwaitingResponse {
		t.Errorf("turn = %v, want awaiting_response", got)
	}
}

func TestSubmitBlankInputIsNoOp(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("   ")

	m, cmd := m.submit()
	if cmd != nil {
		t.Error("blank submit returned a command")
	}
	if m.conv.Turn() != model.TurnIdle {
		t.Errorf("turn = %v, want idle", m.conv.Turn())
	}
	if m.conv.Session().MessageCount() != 0 {
		t.Error("blank submit appended a message")
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("hola tribunal")
	m, _ = m.submit()

	count := m.conv.Session().MessageCount()
	updated, _ := m.Update(ConsultaResultMsg{
		TurnID:   m.turnID - 1,
		Response: &api.ConsultaResponse{Respuesta: "respuesta vieja"},
	})
	m = updated.(Model)

	if m.conv.Session().MessageCount() != count {
		t.Error("stale result appended a message")
	}
	if got := m.conv.Turn(); got != model.TurnAwaitingResponse {
		t.Errorf("turn = %v, want awaiting_response", got)
	}
}

func TestCancelledTurnIgnoresLateResult(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("¿puedo rescindir el contrato?")
	m, _ = m.submit()
	staleID := m.turnID

	m, _ = m.interruptTurn()
	if m.conv.Turn() != model.TurnIdle {
		t.Fatalf("turn after cancel = %v, want idle", m.conv.Turn())
	}

	count := m.conv.Session().MessageCount()
	updated, _ := m.Update(ConsultaResultMsg{
		TurnID:   staleID,
		Response: &api.ConsultaResponse{Respuesta: "llegó tarde"},
	})
	m = updated.(Model)

	if m.conv.Session().MessageCount() != count {
		t.Error("late result of a cancelled turn appended a message")
	}
}

// =============================================================================
// ERROR PROPAGATION TESTS
// =============================================================================

func TestErrorBecomesAssistantMessage(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("consulta que va a fallar")
	m, _ = m.submit()

	reqErr := &api.RequestError{Kind: api.ErrTimeout}
	updated, _ := m.Update(ConsultaResultMsg{TurnID: m.turnID, Err: reqErr})
	m = updated.(Model)

	msgs := m.conv.Session().Messages
	last := msgs[len(msgs)-1]
	if last.Role != model.RoleAssistant {
		t.Errorf("error message role = %v, want assistant", last.Role)
	}
	if last.Content != reqErr.UserMessage() {
		t.Errorf("error message content = %q, want %q", last.Content, reqErr.UserMessage())
	}
	if m.conv.Turn() != model.TurnIdle {
		t.Errorf("turn = %v, want idle after failure", m.conv.Turn())
	}
	if !m.toasts.HasToasts() {
		t.Error("no toast shown for failed turn")
	}
}

func TestUnknownErrorStillReturnsToIdle(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("otra consulta")
	m, _ = m.submit()

	updated, _ := m.Update(ConsultaResultMsg{TurnID: m.turnID, Err: errFake})
	m = updated.(Model)

	if m.conv.Turn() != model.TurnIdle {
		t.Errorf("turn = %v, want idle", m.conv.Turn())
	}
	msgs := m.conv.Session().Messages
	if msgs[len(msgs)-1].Role != model.RoleAssistant {
		t.Error("unknown error did not append an assistant message")
	}
}

// =============================================================================
// REVEAL TESTS
// =============================================================================

func TestRevealCommitsFullText(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("¿qué dice el artículo 10?")
	m, _ = m.submit()

	answer := "El artículo 10 del Código Civil establece la capacidad de las personas."
	updated, _ := m.Update(ConsultaResultMsg{
		TurnID:   m.turnID,
		Response: &api.ConsultaResponse{Respuesta: answer},
	})
	m = updated.(Model)

	if m.conv.Turn() != model.TurnStreaming {
		t.Fatalf("turn = %v, want streaming", m.conv.Turn())
	}
	if m.draft == nil {
		t.Fatal("no draft during reveal")
	}

	for i := 0; i < 200 && m.conv.Turn() == model.TurnStreaming; i++ {
		updated, _ = m.Update(RevealStepMsg{TurnID: m.turnID})
		m = updated.(Model)
	}

	if m.conv.Turn() != model.TurnIdle {
		t.Fatalf("reveal never settled, turn = %v", m.conv.Turn())
	}
	if m.draft != nil {
		t.Error("draft survived settling")
	}
	last := m.conv.Session().LastAssistantMessage()
	if last == nil || last.Content != answer {
		t.Errorf("committed answer = %q, want %q", last.Content, answer)
	}
	if last.IsDraft() {
		t.Error("committed answer still marked draft")
	}
}

func TestSkipRevealCommitsFullText(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("explicame la usucapión")
	m, _ = m.submit()

	answer := "La usucapión es la adquisición del dominio por la posesión continuada."
	updated, _ := m.Update(ConsultaResultMsg{
		TurnID:   m.turnID,
		Response: &api.ConsultaResponse{Respuesta: answer},
	})
	m = updated.(Model)

	// One step in, then skip ahead.
	updated, _ = m.Update(RevealStepMsg{TurnID: m.turnID})
	m = updated.(Model)
	m, _ = m.interruptTurn()

	if m.conv.Turn() != model.TurnIdle {
		t.Fatalf("turn = %v, want idle after skip", m.conv.Turn())
	}
	last := m.conv.Session().LastAssistantMessage()
	if last == nil || last.Content != answer {
		t.Errorf("skip committed %q, want the full answer", last.Content)
	}
}

func TestTypewriterDisabledCommitsAtOnce(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("¿cuál es el plazo de prescripción?")
	m, _ = m.submit()

	m = completeTurn(t, m, "El plazo general es de diez años.")

	if m.conv.Turn() != model.TurnIdle {
		t.Errorf("turn = %v, want idle", m.conv.Turn())
	}
	last := m.conv.Session().LastAssistantMessage()
	if last == nil || last.Content != "El plazo general es de diez años." {
		t.Error("answer not committed directly")
	}
}

// =============================================================================
// SESSION MANAGEMENT TESTS
// =============================================================================

func TestSessionSwitchNoCrossContamination(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("consulta uno")
	m, _ = m.submit()
	m = completeTurn(t, m, "respuesta uno")
	firstID := m.conv.Session().ID

	m, _ = m.startNewSession()
	if m.conv.Session().ID == firstID {
		t.Fatal("new session reused the old ID")
	}
	m.input.SetValue("consulta dos")
	m, _ = m.submit()
	m = completeTurn(t, m, "respuesta dos")

	for _, msg := range m.conv.Session().Messages {
		if strings.Contains(msg.Content, "uno") {
			t.Errorf("second session contains first session content: %q", msg.Content)
		}
	}

	stored, err := m.store.Get(firstID)
	if err != nil {
		t.Fatalf("first session lost: %v", err)
	}
	if stored.MessageCount() != 2 {
		t.Errorf("first session message count = %d, want 2", stored.MessageCount())
	}

	m, _ = m.switchToSession(firstID)
	if m.conv.Session().ID != firstID {
		t.Error("switch did not resume the stored session")
	}
	if m.conv.Session().Messages[0].Content != "consulta uno" {
		t.Error("resumed session lost its messages")
	}
}

func TestDeleteActiveSessionStartsFresh(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("consulta efímera")
	m, _ = m.submit()
	m = completeTurn(t, m, "respuesta efímera")
	id := m.conv.Session().ID

	m, _ = m.deleteSession(id)

	if _, err := m.store.Get(id); err == nil {
		t.Error("deleted session still in store")
	}
	if m.conv.Session().ID == id {
		t.Error("deleted session still open")
	}
	if !m.conv.Session().IsEmpty() {
		t.Error("replacement session not empty")
	}
}

func TestNewSessionWhileBusyInterruptsTurn(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("consulta en vuelo")
	m, _ = m.submit()

	m, _ = m.startNewSession()

	if m.conv.Turn() != model.TurnIdle {
		t.Errorf("turn = %v, want idle in the new session", m.conv.Turn())
	}
	if !m.conv.Session().IsEmpty() {
		t.Error("new session not empty")
	}
}

// =============================================================================
// DRAFT PERSISTENCE TESTS
// =============================================================================

func TestQuitSavesDraft(t *testing.T) {
	m := testModel(t)
	m.input.SetValue("borrador sin enviar")

	m, _ = m.quit()

	if got := m.drafts.Load(); got != "borrador sin enviar" {
		t.Errorf("saved draft = %q, want the unsent input", got)
	}
}

func TestSubmitClearsDraft(t *testing.T) {
	m := testModel(t)
	if err := m.drafts.Save("borrador previo"); err != nil {
		t.Fatal(err)
	}

	m.input.SetValue("consulta enviada")
	m, _ = m.submit()

	if got := m.drafts.Load(); got != "" {
		t.Errorf("draft not cleared on submit: %q", got)
	}
}

var errFake = fakeError("backend exploded")

type fakeError string

func (e fakeError) Error() string { return string(e) }
