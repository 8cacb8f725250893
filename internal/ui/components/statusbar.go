// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut pairs a key with its description for the status bar hint strip.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar: model name, transient status, shortcuts.
type StatusBar struct {
	theme *styles.Theme

	Model     string
	Status    string
	IsError   bool
	Width     int
	Shortcuts []Shortcut
}

// NewStatusBar creates a status bar with the default shortcut hints.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{
		theme: theme,
		Shortcuts: []Shortcut{
			{Key: "enter", Desc: "send"},
			{Key: "ctrl+n", Desc: "new session"},
			{Key: "ctrl+s", Desc: "sessions"},
			{Key: "esc", Desc: "cancel"},
			{Key: "ctrl+c", Desc: "quit"},
		},
	}
}

// View renders the status bar line.
func (b StatusBar) View() string {
	var parts []string

	if b.Model != "" {
		parts = append(parts, b.theme.StatusMode.Render(b.Model))
	}

	if b.Status != "" {
		if b.IsError {
			parts = append(parts, b.theme.StatusError.Render(b.Status))
		} else {
			parts = append(parts, b.Status)
		}
	}

	var hints []string
	for _, sc := range b.Shortcuts {
		hints = append(hints, b.theme.ShortcutKey.Render(sc.Key)+" "+b.theme.ShortcutDesc.Render(sc.Desc))
	}
	parts = append(parts, strings.Join(hints, "  "))

	line := strings.Join(parts, "  |  ")
	if b.Width > 0 {
		return b.theme.StatusBar.Width(b.Width).Render(line)
	}
	return b.theme.StatusBar.Render(line)
}
