// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for studyhall.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.studyhall/config.toml
//   - ~/.studyhall/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete studyhall configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Provider configuration
	Provider ProviderConfig `toml:"provider" json:"provider"`

	// Study feature defaults
	Study StudyConfig `toml:"study" json:"study"`

	// History configuration
	History HistoryConfig `toml:"history" json:"history"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// ProviderConfig contains completion-provider configuration.
type ProviderConfig struct {
	// APIKey is the provider API key.
	// SECURITY: Prefer the STUDYHALL_API_KEY environment variable.
	APIKey string `toml:"api_key" json:"api_key"`
	// BaseURL is the provider API base URL
	BaseURL string `toml:"base_url" json:"base_url"`
	// Model is the default model id
	Model string `toml:"model" json:"model"`
	// MaxRetries bounds whole-request retries (1-10)
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// TimeoutSecs is the non-streaming request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// StudyConfig contains per-feature defaults.
type StudyConfig struct {
	// CitationStyle is the default style: "apa", "mla", "harvard", "chicago"
	CitationStyle string `toml:"citation_style" json:"citation_style"`
	// MarkingStandard names the rubric sent with marking requests
	MarkingStandard string `toml:"marking_standard" json:"marking_standard"`
	// PageConcurrency bounds concurrent page requests for documents (0 = unbounded)
	PageConcurrency int `toml:"page_concurrency" json:"page_concurrency"`
}

// HistoryConfig contains chat history configuration.
type HistoryConfig struct {
	// Dir is the history directory (empty = ~/.studyhall/history)
	Dir string `toml:"dir" json:"dir"`
	// MaxSessions limits stored sessions (0 = unlimited)
	MaxSessions int `toml:"max_sessions" json:"max_sessions"`
	// IndexEnabled enables the full-text search index
	IndexEnabled bool `toml:"index_enabled" json:"index_enabled"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowTimestamps displays message timestamps in the chat view
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Provider: ProviderConfig{
			BaseURL:     "https://api.studyhall.dev/v1",
			Model:       "studyhall-tutor",
			MaxRetries:  3,
			TimeoutSecs: 60,
		},

		Study: StudyConfig{
			CitationStyle:   "apa",
			MarkingStandard: "general",
			PageConcurrency: 4,
		},

		History: HistoryConfig{
			MaxSessions:  100,
			IndexEnabled: true,
		},

		UI: UIConfig{
			Theme:          "dark",
			CompactMode:    false,
			ShowTimestamps: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the studyhall configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".studyhall"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 to protect the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults. Environment
// overrides are applied last.
func Load() (*Config, error) {
	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			return LoadFromPath(tomlPath)
		}
	}
	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			return LoadFromPath(jsonPath)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := loadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := loadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func loadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// loadJSON loads configuration from a JSON file.
// SECURITY: Checks and fixes file permissions on load.
func loadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults fills in any missing values with defaults, so older config
// files with missing fields keep working.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = defaults.Provider.BaseURL
	}
	if c.Provider.Model == "" {
		c.Provider.Model = defaults.Provider.Model
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = defaults.Provider.MaxRetries
	}
	if c.Provider.TimeoutSecs == 0 {
		c.Provider.TimeoutSecs = defaults.Provider.TimeoutSecs
	}
	if c.Study.CitationStyle == "" {
		c.Study.CitationStyle = defaults.Study.CitationStyle
	}
	if c.Study.MarkingStandard == "" {
		c.Study.MarkingStandard = defaults.Study.MarkingStandard
	}
	if c.History.MaxSessions == 0 {
		c.History.MaxSessions = defaults.History.MaxSessions
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("STUDYHALL_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("STUDYHALL_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("STUDYHALL_MODEL"); v != "" {
		c.Provider.Model = v
	}
	if v := os.Getenv("STUDYHALL_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("STUDYHALL_HISTORY_DIR"); v != "" {
		c.History.Dir = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Provider.BaseURL != "" {
		u, err := url.Parse(c.Provider.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("provider.base_url %q is not a valid http(s) URL", c.Provider.BaseURL)
		}
	}
	if c.Provider.MaxRetries < 1 || c.Provider.MaxRetries > 10 {
		return fmt.Errorf("provider.max_retries %d out of range (1-10)", c.Provider.MaxRetries)
	}
	if c.Provider.TimeoutSecs < 1 || c.Provider.TimeoutSecs > 600 {
		return fmt.Errorf("provider.timeout_secs %d out of range (1-600)", c.Provider.TimeoutSecs)
	}

	switch c.Study.CitationStyle {
	case "apa", "mla", "harvard", "chicago":
	default:
		return fmt.Errorf("study.citation_style %q is not supported", c.Study.CitationStyle)
	}
	if c.Study.PageConcurrency < 0 {
		return fmt.Errorf("study.page_concurrency must not be negative")
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme %q is not one of dark, light, auto", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the TOML config file atomically.
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to a specific path atomically.
// SECURITY: Written 0600 because the file may carry the API key.
func (c *Config) SaveTo(path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}
