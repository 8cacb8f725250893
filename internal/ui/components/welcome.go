// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

const welcomeLogo = `       _             _       _           _ _
   ___| |_ _   _  __| |_   _| |__   __ _| | |
  / __| __| | | |/ _` + "`" + ` | | | | '_ \ / _` + "`" + ` | | |
  \__ \ |_| |_| | (_| | |_| | | | | (_| | | |
  |___/\__|\__,_|\__,_|\__, |_| |_|\__,_|_|_|
                       |___/`

// Welcome renders the first-run screen shown before any message is sent.
type Welcome struct {
	theme *styles.Theme

	Version string
	Width   int
	Height  int
}

// NewWelcome creates the welcome screen.
func NewWelcome(theme *styles.Theme, version string) Welcome {
	return Welcome{theme: theme, Version: version}
}

// View renders the centered welcome box.
func (w Welcome) View() string {
	var b strings.Builder
	b.WriteString(w.theme.WelcomeLogo.Render(welcomeLogo))
	b.WriteString("\n\n")
	b.WriteString(w.theme.WelcomeInfo.Render("Your AI study companion, in the terminal."))
	if w.Version != "" {
		b.WriteString("\n")
		b.WriteString(w.theme.SessionMeta.Render("v" + w.Version))
	}
	b.WriteString("\n\n")
	b.WriteString(w.theme.WelcomeInfo.Render("Type a question and press "))
	b.WriteString(w.theme.WelcomeKey.Render("enter"))
	b.WriteString(w.theme.WelcomeInfo.Render(" to start."))

	box := w.theme.WelcomeBox.Render(b.String())
	if w.Width > 0 && w.Height > 0 {
		return lipgloss.Place(w.Width, w.Height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
