// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/colepa/colepa-tui/internal/util"
)

// TitleBudget is the rune budget for a derived session title. The first
// user message is truncated to this length with "..." appended.
const TitleBudget = 50

// DefaultTitle is the placeholder title before the first user message.
const DefaultTitle = "Nueva consulta"

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is one saved conversation thread. Message order is significant
// and must survive a round trip through the store.
type Session struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Messages     []*Message `json:"messages"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActiveAt time.Time  `json:"last_active_at"`
}

// NewSession creates an empty session. The ID is derived from the
// creation time so sessions sort naturally and stay unique per client.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:           "chat_" + strconv.FormatInt(now.UnixMilli(), 10),
		Title:        DefaultTitle,
		Messages:     make([]*Message, 0),
		CreatedAt:    now,
		LastActiveAt: now,
	}
}

// Append adds a settled message, refreshes LastActiveAt, and derives the
// title from the first user message if it has not been set yet.
func (s *Session) Append(msg *Message) {
	s.Messages = append(s.Messages, msg)
	s.LastActiveAt = time.Now()
	s.deriveTitle()
}

// deriveTitle sets the title exactly once, from the first user message.
func (s *Session) deriveTitle() {
	if s.Title != "" && s.Title != DefaultTitle {
		return
	}
	for _, msg := range s.Messages {
		if msg.Role == RoleUser && !msg.IsEmpty() {
			s.Title = DeriveTitle(msg.Content)
			return
		}
	}
}

// DeriveTitle computes a session title from a first user message. The
// function is pure and idempotent over the same input: a rune-safe prefix
// within TitleBudget, with "..." appended iff the message exceeds it.
func DeriveTitle(firstUserMessage string) string {
	content := strings.TrimSpace(util.CollapseNewlines(firstUserMessage))
	if content == "" {
		return DefaultTitle
	}
	runes := []rune(content)
	if len(runes) <= TitleBudget {
		return content
	}
	return string(runes[:TitleBudget]) + "..."
}

// MessageCount returns the number of messages.
func (s *Session) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty reports whether the session has no messages.
func (s *Session) IsEmpty() bool {
	return len(s.Messages) == 0
}

// LastAssistantMessage returns the most recent assistant message, or nil.
func (s *Session) LastAssistantMessage() *Message {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the session. Switching sessions hands the
// UI a copy so edits to the active conversation never alias stored state.
func (s *Session) Clone() *Session {
	clone := &Session{
		ID:           s.ID,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		Messages:     make([]*Message, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		msgCopy := *msg
		if msg.Metadata != nil {
			metaCopy := *msg.Metadata
			if msg.Metadata.Source != nil {
				srcCopy := *msg.Metadata.Source
				metaCopy.Source = &srcCopy
			}
			if msg.Metadata.Recommendations != nil {
				metaCopy.Recommendations = append([]string(nil), msg.Metadata.Recommendations...)
			}
			msgCopy.Metadata = &metaCopy
		}
		clone.Messages[i] = &msgCopy
	}
	return clone
}
