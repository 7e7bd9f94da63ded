// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/colepa/colepa-tui/internal/api"
	"github.com/colepa/colepa-tui/internal/config"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// ConsultaResultMsg carries the outcome of one backend consultation.
// TurnID ties the result to the turn that started it; a result from a
// cancelled or superseded turn is discarded on arrival.
type ConsultaResultMsg struct {
	TurnID   int
	Response *api.ConsultaResponse
	Err      error
}

// RevealStepMsg advances the word-by-word reveal by one step.
type RevealStepMsg struct {
	TurnID int
}

// HealthMsg reports the latest backend probe result.
type HealthMsg struct {
	Online bool
}

// ConfigMsg delivers a configuration reloaded from disk.
type ConfigMsg struct {
	Config *config.Config
}

// healthTickMsg fires when it is time to re-probe the backend.
type healthTickMsg struct{}

// toastTickMsg fires while toasts are on screen so they can expire.
type toastTickMsg struct{}
