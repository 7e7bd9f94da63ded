// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete client configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	UI      UIConfig      `toml:"ui"`
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is the backend address, e.g. "https://colepa.example.com".
	BaseURL string `toml:"base_url"`
	// TimeoutSecs bounds a single consultation end to end.
	TimeoutSecs int `toml:"timeout_secs"`
	// HealthIntervalSecs is how often the status badge re-probes.
	HealthIntervalSecs int `toml:"health_interval_secs"`
}

// Timeout returns the consultation timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// HealthInterval returns the probe interval as a duration.
func (a APIConfig) HealthInterval() time.Duration {
	return time.Duration(a.HealthIntervalSecs) * time.Second
}

// UIConfig configures rendering and pacing.
type UIConfig struct {
	// Theme is "light" or "dark".
	Theme string `toml:"theme"`
	// TypeMinDelayMs and TypeMaxDelayMs bound the per-word reveal pause.
	TypeMinDelayMs int `toml:"type_min_delay_ms"`
	TypeMaxDelayMs int `toml:"type_max_delay_ms"`
	// Typewriter disables the word-by-word reveal when false; answers
	// then appear at once.
	Typewriter bool `toml:"typewriter"`
}

// StorageConfig configures where history lives.
type StorageConfig struct {
	// Dir is the data directory. Empty means ~/.colepa.
	Dir string `toml:"dir"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	// Level is a zerolog level name: "debug", "info", "warn", "error".
	Level string `toml:"level"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:            "http://localhost:8000",
			TimeoutSecs:        30,
			HealthIntervalSecs: 30,
		},
		UI: UIConfig{
			Theme:          "dark",
			TypeMinDelayMs: 30,
			TypeMaxDelayMs: 90,
			Typewriter:     true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Dir returns the data directory, resolving the default lazily so tests
// can point Storage.Dir anywhere.
func (c *Config) Dir() string {
	if c.Storage.Dir != "" {
		return c.Storage.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".colepa"
	}
	return filepath.Join(home, ".colepa")
}

// Path returns the config file location inside the data directory.
func (c *Config) Path() string {
	return filepath.Join(c.Dir(), "config.toml")
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration: defaults, then the TOML file when
// present, then environment overrides, then validation. A missing file
// is not an error.
func Load() (*Config, error) {
	cfg := Default()

	if dir := os.Getenv("COLEPA_DIR"); dir != "" {
		cfg.Storage.Dir = dir
	}

	path := cfg.Path()
	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML merges a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadFromPath reads a specific config file with defaults, overrides,
// and validation applied.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variables on top of the file:
//   - COLEPA_API_URL: overrides api.base_url
//   - COLEPA_TIMEOUT_SECS: overrides api.timeout_secs
//   - COLEPA_DIR: overrides storage.dir
//   - COLEPA_THEME: overrides ui.theme
//   - COLEPA_LOG_LEVEL: overrides log.level
//   - COLEPA_NO_TYPEWRITER: set to "1" or "true" to disable the reveal
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("COLEPA_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("COLEPA_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("COLEPA_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("COLEPA_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("COLEPA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("COLEPA_NO_TYPEWRITER"); v == "1" || strings.EqualFold(v, "true") {
		c.UI.Typewriter = false
	}
}

// Save writes the configuration as TOML.
func Save(cfg *Config) error {
	path := cfg.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL == "" {
		errs = append(errs, ValidationError{"api.base_url", "must not be empty"})
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{"api.base_url", fmt.Sprintf("invalid URL %q", c.API.BaseURL)})
	}

	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{"api.timeout_secs", "must be between 1 and 300"})
	}
	if c.API.HealthIntervalSecs < 5 {
		errs = append(errs, ValidationError{"api.health_interval_secs", "must be at least 5"})
	}

	if c.UI.Theme != "light" && c.UI.Theme != "dark" {
		errs = append(errs, ValidationError{"ui.theme", fmt.Sprintf("must be \"light\" or \"dark\", got %q", c.UI.Theme)})
	}
	if c.UI.TypeMinDelayMs < 0 {
		errs = append(errs, ValidationError{"ui.type_min_delay_ms", "must not be negative"})
	}
	if c.UI.TypeMaxDelayMs < c.UI.TypeMinDelayMs {
		errs = append(errs, ValidationError{"ui.type_max_delay_ms", "must be >= type_min_delay_ms"})
	}

	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "disabled":
	default:
		errs = append(errs, ValidationError{"log.level", fmt.Sprintf("unknown level %q", c.Log.Level)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
