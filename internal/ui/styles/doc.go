// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the color palette and Lip Gloss styles shared
// by every view of the COLEPA TUI. Colors are adaptive and follow the
// terminal's light or dark background.
package styles
