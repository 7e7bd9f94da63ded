// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TURN STATE MACHINE
// =============================================================================

// TurnState tracks the lifecycle of a single consultation turn.
//
// Transitions:
//
//	Idle -> AwaitingResponse   user submits a question
//	AwaitingResponse -> Streaming   response arrived, reveal starts
//	AwaitingResponse -> Idle        request failed or was cancelled
//	Streaming -> Idle               reveal finished or was cancelled
//
// Submission is only legal from Idle: at most one turn is in flight.
type TurnState int

const (
	// TurnIdle means no consultation is in flight. Input is accepted.
	TurnIdle TurnState = iota

	// TurnAwaitingResponse means the question was sent and the client is
	// waiting for the backend.
	TurnAwaitingResponse

	// TurnStreaming means the answer arrived and the typewriter reveal is
	// running.
	TurnStreaming
)

// String returns a readable name for logs.
func (t TurnState) String() string {
	switch t {
	case TurnIdle:
		return "idle"
	case TurnAwaitingResponse:
		return "awaiting_response"
	case TurnStreaming:
		return "streaming"
	default:
		return "unknown"
	}
}

// CanSubmit reports whether a new question may be sent.
func (t TurnState) CanSubmit() bool {
	return t == TurnIdle
}

// InFlight reports whether a turn is currently active in any phase.
func (t TurnState) InFlight() bool {
	return t != TurnIdle
}
