// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colepa/colepa-tui/internal/api"
	"github.com/colepa/colepa-tui/internal/config"
	"github.com/colepa/colepa-tui/internal/model"
	"github.com/colepa/colepa-tui/internal/storage"
	"github.com/colepa/colepa-tui/internal/typewriter"
	"github.com/colepa/colepa-tui/internal/ui/components"
	"github.com/colepa/colepa-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the consultation screen.
//
// RELIABILITY: the turn state machine lives in the Conversation; at most
// one consultation is ever in flight, and submitting while a turn is
// active is a no-op. Every async result carries the turn counter it was
// started under, so a cancelled turn resolving late changes nothing.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme
	log   zerolog.Logger

	store   *storage.SessionStore
	drafts  *storage.DraftStore
	client  *api.Client
	conv    *model.Conversation
	updates <-chan *config.Config

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model

	sidebar *components.Sidebar
	status  *components.StatusBar
	toasts  *components.ToastManager
	welcome *components.Welcome

	// Reveal state for the turn currently streaming. The draft message
	// joins the conversation only when it settles.
	writer   *typewriter.Typewriter
	draft    *model.Message
	steps    []typewriter.Step
	stepIdx  int
	fullText string

	turnID    int
	cancelMgr *cancelManager

	showSidebar  bool
	toastTicking bool
	width        int
	height       int
	ready        bool
	online       bool
}

// New builds the chat model. When the store has an active session it is
// resumed; otherwise the conversation starts fresh. The pending draft,
// if one was saved on a previous exit, is restored into the input.
func New(cfg *config.Config, store *storage.SessionStore, drafts *storage.DraftStore,
	client *api.Client, updates <-chan *config.Config, log zerolog.Logger) Model {

	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Escribí tu consulta legal..."
	input.Prompt = "❯ "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = model.MaxInputRunes
	input.Focus()
	input.SetValue(drafts.Load())

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = theme.Spinner

	var conv *model.Conversation
	if active, err := store.Get(store.ActiveID()); err == nil {
		conv = model.ResumeConversation(active, store)
	} else {
		conv = model.NewConversation(store)
	}

	m := Model{
		cfg:       cfg,
		theme:     theme,
		log:       log.With().Str("component", "chat").Logger(),
		store:     store,
		drafts:    drafts,
		client:    client,
		conv:      conv,
		updates:   updates,
		input:     input,
		spin:      spin,
		sidebar:   components.NewSidebar(theme),
		status:    components.NewStatusBar(theme),
		toasts:    components.NewToastManager(theme),
		welcome:   components.NewWelcome(theme),
		writer:    typewriter.New(typeOptions(cfg), nil),
		cancelMgr: newCancelManager(),
	}
	m.refreshSidebar()
	m.status.Title = conv.Session().Title
	return m
}

// typeOptions maps the configured reveal pacing onto typewriter options.
func typeOptions(cfg *config.Config) typewriter.Options {
	opts := typewriter.DefaultOptions()
	if cfg.UI.TypeMinDelayMs > 0 {
		opts.MinDelay = time.Duration(cfg.UI.TypeMinDelayMs) * time.Millisecond
	}
	if cfg.UI.TypeMaxDelayMs > 0 {
		opts.MaxDelay = time.Duration(cfg.UI.TypeMaxDelayMs) * time.Millisecond
	}
	return opts
}

// Init starts the blink cursor and the health probe loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.healthCmd(),
		m.healthTickCmd(),
	}
	if m.updates != nil {
		cmds = append(cmds, m.waitForConfig())
	}
	return tea.Batch(cmds...)
}

// refreshSidebar reloads the session list, honoring any active filter,
// and keeps the open session marked.
func (m *Model) refreshSidebar() {
	m.sidebar.ActiveID = m.conv.Session().ID
	if m.sidebar.Filter != "" {
		m.sidebar.SetSessions(m.store.SearchSessions(m.sidebar.Filter))
		return
	}
	m.sidebar.SetSessions(m.store.List())
}

// chatWidth is the width available to message bubbles.
func (m *Model) chatWidth() int {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w - 2
}

// busy reports whether a turn is in flight.
func (m *Model) busy() bool {
	return m.conv.Turn().InFlight()
}
