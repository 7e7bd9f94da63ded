// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/colepa/colepa-tui/internal/ui/styles"
)

// =============================================================================
// TOAST NOTIFICATIONS
// =============================================================================

// ToastKind classifies a toast for styling and duration.
type ToastKind int

const (
	ToastStatus ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// StatusToastDuration is the auto-dismiss duration for status toasts.
const StatusToastDuration = 4 * time.Second

// WarningToastDuration is the auto-dismiss duration for warnings.
const WarningToastDuration = 6 * time.Second

// ErrorToastDuration is longer so the message can actually be read.
const ErrorToastDuration = 8 * time.Second

// Toast is a transient notification shown above the input area.
type Toast struct {
	ID        int
	Kind      ToastKind
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// ToastManager owns the active toasts. Not safe for concurrent use; the
// Bubble Tea update loop is the only caller.
type ToastManager struct {
	toasts []Toast
	nextID int
	theme  *styles.Theme
}

// NewToastManager creates a toast manager.
func NewToastManager(theme *styles.Theme) *ToastManager {
	return &ToastManager{theme: theme, nextID: 1}
}

// Add queues a toast and returns its ID.
func (m *ToastManager) Add(kind ToastKind, message string) int {
	duration := StatusToastDuration
	switch kind {
	case ToastWarning:
		duration = WarningToastDuration
	case ToastError:
		duration = ErrorToastDuration
	}

	id := m.nextID
	m.nextID++
	m.toasts = append(m.toasts, Toast{
		ID:        id,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})
	return id
}

// AddStatus queues an informational toast.
func (m *ToastManager) AddStatus(message string) int {
	return m.Add(ToastStatus, message)
}

// AddError queues an error toast.
func (m *ToastManager) AddError(message string) int {
	return m.Add(ToastError, message)
}

// Remove dismisses a toast by ID.
func (m *ToastManager) Remove(id int) {
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Expire drops expired toasts and reports whether any remain.
func (m *ToastManager) Expire() bool {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return len(m.toasts) > 0
}

// HasToasts reports whether anything is displayed.
func (m *ToastManager) HasToasts() bool {
	return len(m.toasts) > 0
}

// View renders the active toasts, one per line, newest last.
func (m *ToastManager) View() string {
	if len(m.toasts) == 0 {
		return ""
	}
	out := ""
	for i, t := range m.toasts {
		if i > 0 {
			out += "\n"
		}
		switch t.Kind {
		case ToastError, ToastWarning:
			out += m.theme.ToastError.Render(t.Message)
		default:
			out += m.theme.ToastInfo.Render(t.Message)
		}
	}
	return out
}
