// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the COLEPA backend: consultation
// submission, error classification by status code, and the health probe
// behind the status bar badge.
package api
