// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversation history and input drafts on the
// local filesystem. History is a single versioned JSON document written
// atomically; loading is fail-soft so a corrupt file never blocks the
// client from starting.
package storage
