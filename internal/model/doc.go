// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for COLEPA conversations:
// messages with legal citations, sessions, and the per-turn state machine
// that keeps at most one consultation in flight.
package model
