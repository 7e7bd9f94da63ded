// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typewriter paces the word-by-word reveal of assistant answers.
// Pauses are randomized within a configured band and stretched after
// clause and sentence punctuation; cancellation resolves a reveal to the
// full text instead of truncating it.
package typewriter
