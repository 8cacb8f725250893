// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// HEADER
// =============================================================================

// Header renders the top bar of the chat view: brand, session title, and
// message count.
type Header struct {
	theme *styles.Theme

	Brand        string
	SessionTitle string
	MessageCount int
	Width        int
}

// NewHeader creates a header with the studyhall brand.
func NewHeader(theme *styles.Theme) Header {
	return Header{
		theme: theme,
		Brand: "studyhall",
	}
}

// View renders the header line.
func (h Header) View() string {
	brand := h.theme.HeaderBrand.Render(h.Brand)

	title := h.SessionTitle
	if title == "" {
		title = "New Session"
	}
	// Keep long titles from pushing the meta off-screen.
	maxTitle := h.Width / 2
	if maxTitle > 0 {
		title = util.TruncateWidth(title, maxTitle)
	}

	meta := ""
	if h.MessageCount > 0 {
		meta = h.theme.HeaderSubtitle.Render(util.IntToString(h.MessageCount) + " messages")
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center,
		brand,
		"  ",
		h.theme.HeaderTitle.Render(title),
		"  ",
		meta,
	)

	if h.Width > 0 {
		return h.theme.Header.Width(h.Width).Render(line)
	}
	return h.theme.Header.Render(line)
}
