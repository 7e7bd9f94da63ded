// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/colepa/colepa-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleSystem marks virtual messages (the welcome banner). System
	// messages are never persisted and never reach the wire.
	RoleSystem Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the label shown next to a message bubble.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "Tú"
	case RoleAssistant:
		return "COLEPA"
	case RoleSystem:
		return "Sistema"
	default:
		return string(r)
	}
}

// =============================================================================
// SOURCE REFERENCE
// =============================================================================

// SourceRef is the structured legal citation attached to an assistant
// answer: the law, the article number, and an optional title.
type SourceRef struct {
	Ley            string        `json:"ley"`
	ArticuloNumero ArticleNumber `json:"articulo_numero,omitempty"`
	Titulo         string        `json:"titulo,omitempty"`
}

// IsZero reports whether the citation carries no law name. The backend
// sends "fuente": null for non-legal answers; an empty law means there is
// nothing to cite.
func (s *SourceRef) IsZero() bool {
	return s == nil || s.Ley == ""
}

// ArticleNumber tolerates both JSON strings and numbers: the backend has
// historically sent "articulo_numero" as either.
type ArticleNumber string

// UnmarshalJSON accepts a string, a number, or null.
func (a *ArticleNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = ArticleNumber(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = ArticleNumber(n.String())
	return nil
}

// MarshalJSON always emits a string for round-trip stability.
func (a ArticleNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// String returns the article number as text.
func (a ArticleNumber) String() string {
	return string(a)
}

// =============================================================================
// METADATA
// =============================================================================

// Metadata holds the optional fields an assistant answer may carry.
type Metadata struct {
	Source           *SourceRef `json:"source,omitempty"`
	Recommendations  []string   `json:"recommendations,omitempty"`
	ProcessingTimeMs int64      `json:"processing_time_ms,omitempty"`
}

// IsZero reports whether there is nothing worth persisting.
func (m *Metadata) IsZero() bool {
	return m == nil || (m.Source.IsZero() && len(m.Recommendations) == 0 && m.ProcessingTimeMs == 0)
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a conversation.
//
// A user message's content is immutable after creation. An assistant
// message may pass through a draft phase while the typewriter reveal is
// running; draft content lives only in the view layer and the message is
// appended to the session once settled.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  *Metadata `json:"metadata,omitempty"`

	// Draft state (not persisted).
	draft bool
}

// NewMessage creates a settled message with a fresh ID and timestamp.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateMessageID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a settled user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a settled assistant message with metadata.
func NewAssistantMessage(content string, meta *Metadata) *Message {
	msg := NewMessage(RoleAssistant, content)
	if !meta.IsZero() {
		msg.Metadata = meta
	}
	return msg
}

// NewAssistantDraft creates an empty assistant message in the draft phase.
// Its content grows during the reveal and is frozen by Settle.
func NewAssistantDraft(meta *Metadata) *Message {
	msg := NewMessage(RoleAssistant, "")
	msg.draft = true
	if !meta.IsZero() {
		msg.Metadata = meta
	}
	return msg
}

// NewSystemMessage creates a virtual system message (welcome banner).
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// IsDraft reports whether the message is still being revealed.
func (m *Message) IsDraft() bool {
	return m.draft
}

// SetDraftContent updates the visible content of a draft. A no-op on
// settled messages, which keeps user content immutable.
func (m *Message) SetDraftContent(partial string) {
	if m.draft {
		m.Content = partial
	}
}

// Settle freezes the message with its final content. A no-op if the
// message is not a draft.
func (m *Message) Settle(fullText string) {
	if !m.draft {
		return
	}
	m.Content = fullText
	m.draft = false
}

// IsEmpty reports whether the message has no visible content. Whitespace
// counts as empty: a "thinking..." stub must never reach the wire.
func (m *Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}

// Preview returns a single-line, rune-truncated preview of the content.
func (m *Message) Preview(maxRunes int) string {
	return util.TruncateRunes(strings.TrimSpace(util.CollapseNewlines(m.Content)), maxRunes)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	return "msg_" + uuid.NewString()
}

// FormatProcessingTime renders a processing duration for display, e.g.
// "1.2s" or "850ms".
func FormatProcessingTime(ms int64) string {
	if ms <= 0 {
		return ""
	}
	if ms < 1000 {
		return strconv.FormatInt(ms, 10) + "ms"
	}
	return strconv.FormatFloat(float64(ms)/1000, 'f', 1, 64) + "s"
}
