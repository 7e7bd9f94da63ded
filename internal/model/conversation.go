// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
)

// SessionSaver persists a session after every mutation. Implemented by
// the storage package; kept as an interface here so the conversation
// logic tests with an in-memory fake.
type SessionSaver interface {
	Upsert(s *Session) error
}

// MaxInputRunes is the hard cap on a question's length. Matches the
// backend's validation limit so oversized input fails locally instead of
// with a 422.
const MaxInputRunes = 2000

// =============================================================================
// CONVERSATION
// =============================================================================

// Conversation is the active session plus the turn state. Every settled
// message is pushed to the saver immediately, so a crash at any point
// loses at most the turn in flight.
type Conversation struct {
	session *Session
	saver   SessionSaver
	turn    TurnState
}

// NewConversation starts a conversation with a fresh session. The session
// is not persisted until its first message arrives.
func NewConversation(saver SessionSaver) *Conversation {
	return &Conversation{
		session: NewSession(),
		saver:   saver,
		turn:    TurnIdle,
	}
}

// ResumeConversation continues an existing session.
func ResumeConversation(s *Session, saver SessionSaver) *Conversation {
	return &Conversation{
		session: s,
		saver:   saver,
		turn:    TurnIdle,
	}
}

// Session returns the active session.
func (c *Conversation) Session() *Session {
	return c.session
}

// Turn returns the current turn state.
func (c *Conversation) Turn() TurnState {
	return c.turn
}

// SetTurn moves the turn state machine.
func (c *Conversation) SetTurn(t TurnState) {
	c.turn = t
}

// ValidateInput checks a candidate question before submission. Returns
// ok=false with a user-facing reason when the input must be rejected.
func (c *Conversation) ValidateInput(text string) (ok bool, reason string) {
	if !c.turn.CanSubmit() {
		return false, "Espera a que termine la respuesta actual"
	}
	if strings.TrimSpace(text) == "" {
		return false, ""
	}
	if len([]rune(text)) > MaxInputRunes {
		return false, "La consulta supera el límite de 2000 caracteres"
	}
	return true, ""
}

// AppendMessage adds a settled message to the session and persists it.
// The save error is returned but the in-memory append always happens, so
// a full disk degrades to a memory-only conversation instead of losing
// the exchange.
func (c *Conversation) AppendMessage(msg *Message) error {
	c.session.Append(msg)
	if c.saver == nil {
		return nil
	}
	return c.saver.Upsert(c.session)
}

// ReplaceMessages swaps the session's message list wholesale and persists
// the result. Used by message deletion.
func (c *Conversation) ReplaceMessages(msgs []*Message) error {
	c.session.Messages = msgs
	if c.saver == nil {
		return nil
	}
	return c.saver.Upsert(c.session)
}

// StartNewSession abandons the active session (it stays in the store if
// it was ever persisted) and begins a fresh one. The empty session is
// registered with the saver right away so the store's active id moves
// with it; quitting before the first message still reopens the new
// session. Illegal while a turn is in flight; callers must cancel first.
func (c *Conversation) StartNewSession() *Session {
	c.session = NewSession()
	c.turn = TurnIdle
	if c.saver != nil {
		_ = c.saver.Upsert(c.session)
	}
	return c.session
}

// SwitchSession makes another session active. The caller passes a clone
// so store state is never aliased.
func (c *Conversation) SwitchSession(s *Session) {
	c.session = s
	c.turn = TurnIdle
}

// HistoryForRequest returns the messages eligible for the wire: settled
// user and assistant messages with non-empty content, in order. System
// messages and drafts never leave the client.
func (c *Conversation) HistoryForRequest() []*Message {
	out := make([]*Message, 0, len(c.session.Messages))
	for _, msg := range c.session.Messages {
		if msg.Role == RoleSystem || msg.IsDraft() || msg.IsEmpty() {
			continue
		}
		out = append(out, msg)
	}
	return out
}
