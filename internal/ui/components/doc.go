// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the COLEPA
// TUI: message bubbles with legal citations, the session sidebar, the
// status bar, toast notifications, and the welcome banner.
package components
