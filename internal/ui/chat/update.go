// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/colepa/colepa-tui/internal/api"
	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/typewriter"
)

// toastTickInterval is how often on-screen toasts are re-checked.
const toastTickInterval = time.Second

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles one Bubble Tea message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ConsultaResultMsg:
		// A result from a cancelled or superseded turn arrives with a
		// stale counter and is dropped here.
		if msg.TurnID != m.turnID {
			return m, nil
		}
		m.cancelMgr.clear()
		if msg.Err != nil {
			return m.failTurn(msg.Err)
		}
		return m.startReveal(msg.Response)

	case RevealStepMsg:
		return m.advanceReveal(msg)

	case HealthMsg:
		m.online = msg.Online
		m.status.Online = msg.Online
		return m, nil

	case healthTickMsg:
		return m, tea.Batch(m.healthCmd(), m.healthTickCmd())

	case toastTickMsg:
		if m.toasts.Expire() {
			return m, m.toastTickCmd()
		}
		m.toastTicking = false
		return m, nil

	case ConfigMsg:
		return m.applyConfig(msg)

	case spinner.TickMsg:
		if m.conv.Turn() == model.TurnAwaitingResponse {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m.updateChildren(msg)
}

// updateChildren forwards unhandled messages to the focused widgets.
func (m Model) updateChildren(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if !m.showSidebar {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	contentHeight := msg.Height - chromeHeight
	if contentHeight < 3 {
		contentHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(m.chatWidth(), contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.chatWidth()
		m.viewport.Height = contentHeight
	}

	m.input.Width = msg.Width - 8
	m.sidebar.SetSize(sidebarWidth, contentHeight)
	m.welcome.SetSize(m.chatWidth(), contentHeight)
	m.status.SetWidth(msg.Width)
	m.syncViewport()
	return m
}

// =============================================================================
// SUBMISSION
// =============================================================================

// submit validates the input and starts a new turn. Rejected input
// leaves the turn state untouched.
func (m Model) submit() (Model, tea.Cmd) {
	text := m.input.Value()
	ok, reason := m.conv.ValidateInput(text)
	if !ok {
		if reason != "" {
			m.toasts.AddError(reason)
			return m, m.toastTick()
		}
		return m, nil
	}

	userMsg := model.NewUserMessage(strings.TrimSpace(text))
	if err := m.conv.AppendMessage(userMsg); err != nil {
		// The message is in the conversation either way; only the disk
		// copy is behind.
		m.log.Error().Err(err).Msg("persisting user message failed")
		m.toasts.AddStatus("No se pudo guardar el historial")
	}

	m.input.Reset()
	if err := m.drafts.Save(""); err != nil {
		m.log.Warn().Err(err).Msg("clearing draft failed")
	}

	m.conv.SetTurn(model.TurnAwaitingResponse)
	m.turnID++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	m.status.Title = m.conv.Session().Title
	m.status.Busy = true
	m.refreshSidebar()
	m.syncViewport()
	return m, tea.Batch(m.spin.Tick, m.submitCmd(ctx, m.turnID))
}

func (m Model) submitCmd(ctx context.Context, turnID int) tea.Cmd {
	client := m.client
	history := m.conv.HistoryForRequest()
	return func() tea.Msg {
		resp, err := client.Submit(ctx, history)
		return ConsultaResultMsg{TurnID: turnID, Response: resp, Err: err}
	}
}

// failTurn converts a failed consultation into an assistant message so
// the error lives in the transcript, in turn order, like any answer.
func (m Model) failTurn(err error) (Model, tea.Cmd) {
	text := "Ocurrió un error inesperado. Intentá de nuevo."
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		text = reqErr.UserMessage()
	}
	m.log.Warn().Err(err).Msg("consultation failed")

	if appendErr := m.conv.AppendMessage(model.NewAssistantMessage(text, nil)); appendErr != nil {
		m.log.Error().Err(appendErr).Msg("persisting error message failed")
	}
	m.toasts.AddError(text)

	m.conv.SetTurn(model.TurnIdle)
	m.status.Busy = false
	m.refreshSidebar()
	m.syncViewport()
	return m, m.toastTick()
}

// =============================================================================
// REVEAL
// =============================================================================

// startReveal begins the word-by-word reveal of a successful answer, or
// commits it at once when the typewriter is disabled.
func (m Model) startReveal(resp *api.ConsultaResponse) (Model, tea.Cmd) {
	meta := resp.Metadata()

	if !m.cfg.UI.Typewriter {
		return m.commitAnswer(model.NewAssistantMessage(resp.Respuesta, meta)), nil
	}

	m.conv.SetTurn(model.TurnStreaming)
	m.status.Busy = true
	m.draft = model.NewAssistantDraft(meta)
	m.fullText = resp.Respuesta
	m.steps = m.writer.Schedule(resp.Respuesta)
	m.stepIdx = 0

	turn := m.turnID
	return m, func() tea.Msg { return RevealStepMsg{TurnID: turn} }
}

// advanceReveal applies one reveal step and schedules the next.
func (m Model) advanceReveal(msg RevealStepMsg) (Model, tea.Cmd) {
	if msg.TurnID != m.turnID || m.draft == nil || m.stepIdx >= len(m.steps) {
		return m, nil
	}

	step := m.steps[m.stepIdx]
	m.draft.SetDraftContent(step.Prefix)
	m.syncViewport()

	if m.stepIdx == len(m.steps)-1 {
		return m.settleDraft(), nil
	}

	m.stepIdx++
	turn := m.turnID
	return m, tea.Tick(step.Delay, func(time.Time) tea.Msg {
		return RevealStepMsg{TurnID: turn}
	})
}

// settleDraft commits the streaming draft with its full text. Called at
// the end of the reveal and when the user skips ahead; either way the
// persisted message is the complete answer, never a partial prefix.
func (m Model) settleDraft() Model {
	draft := m.draft
	m.draft = nil
	m.steps = nil
	m.stepIdx = 0
	draft.Settle(m.fullText)
	m.fullText = ""
	return m.commitAnswer(draft)
}

func (m Model) commitAnswer(answer *model.Message) Model {
	if err := m.conv.AppendMessage(answer); err != nil {
		m.log.Error().Err(err).Msg("persisting answer failed")
	}
	m.conv.SetTurn(model.TurnIdle)
	m.status.Busy = false
	m.refreshSidebar()
	m.syncViewport()
	return m
}

// =============================================================================
// TURN CONTROL
// =============================================================================

// interruptTurn handles esc while a turn is active. Waiting for the
// backend aborts the request; a reveal in progress skips to the full
// answer instead of losing it.
func (m Model) interruptTurn() (Model, tea.Cmd) {
	switch m.conv.Turn() {
	case model.TurnAwaitingResponse:
		m.cancelMgr.call()
		m.turnID++
		m.conv.SetTurn(model.TurnIdle)
		m.status.Busy = false
		m.toasts.AddStatus("Consulta cancelada")
		m.syncViewport()
		return m, m.toastTick()

	case model.TurnStreaming:
		return m.settleDraft(), nil
	}
	return m, nil
}

// startNewSession opens a fresh conversation. An active turn is
// interrupted first so its result cannot land in the new session.
func (m Model) startNewSession() (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.busy() {
		m, cmd = m.interruptTurn()
	}
	m.conv.StartNewSession()
	m.status.Title = m.conv.Session().Title
	m.refreshSidebar()
	m.syncViewport()
	return m, cmd
}

// switchToSession resumes a stored session by ID.
func (m Model) switchToSession(id string) (Model, tea.Cmd) {
	session, err := m.store.Get(id)
	if err != nil {
		m.log.Warn().Err(err).Str("session", id).Msg("session lookup failed")
		m.toasts.AddError("No se encontró la consulta")
		return m, m.toastTick()
	}

	var cmd tea.Cmd
	if m.busy() {
		m, cmd = m.interruptTurn()
	}
	m.conv.SwitchSession(session)
	m.status.Title = session.Title
	m.showSidebar = false
	m.syncViewport()
	return m, cmd
}

// deleteSession removes a stored session. Deleting the open one starts
// a fresh conversation in its place.
func (m Model) deleteSession(id string) (Model, tea.Cmd) {
	wasActive := id == m.conv.Session().ID
	if err := m.store.Remove(id); err != nil {
		m.log.Warn().Err(err).Str("session", id).Msg("session delete failed")
		m.toasts.AddError("No se pudo borrar la consulta")
		return m, m.toastTick()
	}

	if wasActive {
		var cmd tea.Cmd
		if m.busy() {
			m, cmd = m.interruptTurn()
		}
		m.conv.StartNewSession()
		m.status.Title = m.conv.Session().Title
		m.refreshSidebar()
		m.syncViewport()
		m.toasts.AddStatus("Consulta borrada")
		return m, tea.Batch(cmd, m.toastTick())
	}

	m.refreshSidebar()
	m.toasts.AddStatus("Consulta borrada")
	return m, m.toastTick()
}

// =============================================================================
// CONFIG AND HEALTH
// =============================================================================

// applyConfig swaps in a configuration reloaded from disk. The backend
// client and reveal pacing pick up the new values; the open session and
// any in-flight turn are left alone.
func (m Model) applyConfig(msg ConfigMsg) (Model, tea.Cmd) {
	m.cfg = msg.Config
	m.client = api.NewClient(msg.Config.API.BaseURL, m.log).
		WithTimeout(msg.Config.API.Timeout())
	m.writer = typewriter.New(typeOptions(msg.Config), nil)
	m.toasts.AddStatus("Configuración recargada")
	return m, tea.Batch(m.toastTick(), m.waitForConfig(), m.healthCmd())
}

func (m Model) waitForConfig() tea.Cmd {
	updates := m.updates
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return ConfigMsg{Config: cfg}
	}
}

func (m Model) healthCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return HealthMsg{Online: client.CheckHealth(context.Background())}
	}
}

func (m Model) healthTickCmd() tea.Cmd {
	interval := m.cfg.API.HealthInterval()
	if interval <= 0 {
		interval = api.DefaultHealthInterval
	}
	return tea.Tick(interval, func(time.Time) tea.Msg { return healthTickMsg{} })
}

// toastTick starts the expiry ticker if it is not already running.
func (m *Model) toastTick() tea.Cmd {
	if m.toastTicking || !m.toasts.HasToasts() {
		return nil
	}
	m.toastTicking = true
	return m.toastTickCmd()
}

func (m Model) toastTickCmd() tea.Cmd {
	return tea.Tick(toastTickInterval, func(time.Time) tea.Msg { return toastTickMsg{} })
}

// quit saves the unsent draft and stops the program.
func (m Model) quit() (Model, tea.Cmd) {
	if err := m.drafts.Save(m.input.Value()); err != nil {
		m.log.Warn().Err(err).Msg("saving draft failed")
	}
	m.cancelMgr.call()
	return m, tea.Quit
}
