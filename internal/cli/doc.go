// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI entry points: one-shot questions,
// a line-based chat for dumb terminals, session management, export, and
// status. Argument parsing is hand-rolled so flags behave the same
// across every subcommand.
package cli
