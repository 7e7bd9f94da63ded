// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive consultation screen: the
// Bubble Tea model that owns the turn lifecycle, drives the word-by-word
// reveal, and keeps the session list, draft, and status bar in sync.
package chat
