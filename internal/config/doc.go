// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates the client configuration.
//
// Sources in order of precedence:
//   - COLEPA_* environment variables
//   - ~/.colepa/config.toml
//   - Built-in defaults
//
// The TOML file is optional and can be live-reloaded through Watch.
package config
