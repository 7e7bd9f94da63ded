// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "https://colepa.example.com"
timeout_secs = 60

[ui]
theme = "light"
type_min_delay_ms = 10
type_max_delay_ms = 20

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.BaseURL != "https://colepa.example.com" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout() != 60*time.Second {
		t.Errorf("timeout = %v", cfg.API.Timeout())
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	// Unset sections keep defaults.
	if cfg.API.HealthIntervalSecs != 30 {
		t.Errorf("health_interval_secs = %d, want default 30", cfg.API.HealthIntervalSecs)
	}
	if !cfg.UI.Typewriter {
		t.Error("typewriter default lost")
	}
}

func TestLoadTOMLRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[api]\nbase_ur = \"typo\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatal("misspelled key accepted")
	} else if !strings.Contains(err.Error(), "base_ur") {
		t.Errorf("error does not name the bad key: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("COLEPA_API_URL", "http://10.0.0.5:8000")
	t.Setenv("COLEPA_THEME", "light")
	t.Setenv("COLEPA_NO_TYPEWRITER", "1")
	t.Setenv("COLEPA_TIMEOUT_SECS", "45")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("theme = %q", cfg.UI.Theme)
	}
	if cfg.UI.Typewriter {
		t.Error("typewriter still enabled")
	}
	if cfg.API.TimeoutSecs != 45 {
		t.Errorf("timeout_secs = %d", cfg.API.TimeoutSecs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url"},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://x" }, "api.base_url"},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, "api.timeout_secs"},
		{"huge timeout", func(c *Config) { c.API.TimeoutSecs = 301 }, "api.timeout_secs"},
		{"tiny health interval", func(c *Config) { c.API.HealthIntervalSecs = 1 }, "api.health_interval_secs"},
		{"bad theme", func(c *Config) { c.UI.Theme = "sepia" }, "ui.theme"},
		{"inverted delays", func(c *Config) { c.UI.TypeMinDelayMs = 50; c.UI.TypeMaxDelayMs = 10 }, "ui.type_max_delay_ms"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("invalid config accepted")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Storage.Dir = dir
	cfg.API.BaseURL = "https://backend.test"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFromPath(cfg.Path())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.API.BaseURL != "https://backend.test" {
		t.Errorf("base_url = %q after round trip", loaded.API.BaseURL)
	}
}

func TestDirDefault(t *testing.T) {
	cfg := Default()
	if !strings.HasSuffix(cfg.Dir(), ".colepa") {
		t.Errorf("default dir = %q", cfg.Dir())
	}
	cfg.Storage.Dir = "/tmp/custom"
	if cfg.Dir() != "/tmp/custom" {
		t.Errorf("explicit dir = %q", cfg.Dir())
	}
}
