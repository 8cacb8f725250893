// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "studyhall-tutor", cfg.Provider.Model)
	assert.Equal(t, "apa", cfg.Study.CitationStyle)
}

func TestLoadFromPathTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1.0.0"

[provider]
api_key = "sk-sh-test"
model = "studyhall-tutor-mini"

[study]
citation_style = "mla"

[ui]
theme = "light"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-sh-test", cfg.Provider.APIKey)
	assert.Equal(t, "studyhall-tutor-mini", cfg.Provider.Model)
	assert.Equal(t, "mla", cfg.Study.CitationStyle)
	assert.Equal(t, "light", cfg.UI.Theme)

	// Fields missing from the file keep their defaults.
	assert.Equal(t, "https://api.studyhall.dev/v1", cfg.Provider.BaseURL)
	assert.Equal(t, 3, cfg.Provider.MaxRetries)
}

func TestLoadFromPathJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"provider": {"model": "from-json"}, "ui": {"theme": "auto"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "from-json", cfg.Provider.Model)
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestLoadFixesInsecurePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`version = "1.0.0"`), 0644))

	_, err := LoadFromPath(path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STUDYHALL_API_KEY", "sk-sh-env")
	t.Setenv("STUDYHALL_MODEL", "env-model")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "sk-sh-env", cfg.Provider.APIKey)
	assert.Equal(t, "env-model", cfg.Provider.Model)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad base url", func(c *Config) { c.Provider.BaseURL = "not a url" }},
		{"bad scheme", func(c *Config) { c.Provider.BaseURL = "ftp://example.org" }},
		{"retries too high", func(c *Config) { c.Provider.MaxRetries = 50 }},
		{"zero timeout", func(c *Config) { c.Provider.TimeoutSecs = 0 }},
		{"unknown citation style", func(c *Config) { c.Study.CitationStyle = "ieee" }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Provider.APIKey = "sk-sh-saved"
	cfg.Study.CitationStyle = "harvard"
	require.NoError(t, cfg.SaveTo(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-sh-saved", loaded.Provider.APIKey)
	assert.Equal(t, "harvard", loaded.Study.CitationStyle)
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Default().SaveTo(path))

	reloaded := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	updated := Default()
	updated.Provider.Model = "hot-reloaded"
	require.NoError(t, updated.SaveTo(path))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "hot-reloaded", cfg.Provider.Model)
	case <-time.After(3 * time.Second):
		t.Fatal("reload callback never fired")
	}
}

func TestWatchIgnoresInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, Default().SaveTo(path))

	calls := make(chan struct{}, 4)
	w, err := Watch(path, func(*Config) { calls <- struct{}{} })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("this is not { toml"), 0600))

	select {
	case <-calls:
		t.Fatal("reload fired for invalid config")
	case <-time.After(700 * time.Millisecond):
	}

	if !strings.HasSuffix(path, ".toml") {
		t.Fatal("unexpected path")
	}
}
