// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders a conversation to shareable formats: plain
// text, Markdown with YAML frontmatter, JSON, and a standalone HTML page
// with syntax-highlighted code blocks. Legal citations and recommended
// follow-up questions are carried into every format that can express
// them.
package export
