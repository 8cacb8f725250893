// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studyhall-tui/internal/ui/components"
	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	switch m.state {
	case StateSessions:
		return m.sessionPickerView()
	case StateHelp:
		return m.helpView()
	}

	sess := m.store.Active()
	if sess != nil && sess.IsEmpty() && m.state == StateReady && m.input.Value() == "" {
		welcome := components.NewWelcome(m.theme, m.version)
		welcome.Width = m.width
		welcome.Height = m.height - 3
		return lipgloss.JoinVertical(lipgloss.Left, welcome.View(), m.inputView(), m.statusView())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.viewport.View(),
		m.inputView(),
		m.statusView(),
	)
}

// inputView renders the prompt line, replaced by the spinner while streaming.
func (m Model) inputView() string {
	if m.state == StateStreaming {
		return m.theme.InputContainer.Render(m.spin.View())
	}
	return m.theme.InputContainer.Render(m.input.View())
}

// statusView renders the transient status or the shortcut bar.
func (m Model) statusView() string {
	m.statusBar.Status = m.status
	m.statusBar.IsError = m.statusError
	return m.statusBar.View()
}

// =============================================================================
// OVERLAYS
// =============================================================================

// sessionPickerView lists sessions with the selection highlighted.
func (m Model) sessionPickerView() string {
	sessions := m.store.Sessions()

	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Sessions"))
	b.WriteString("\n\n")

	for i, sess := range sessions {
		line := m.theme.SessionID.Render(util.TruncateRunes(sess.ID, 12)) +
			" " + m.theme.SessionTitle.Render(util.TruncateWidth(sess.Title, 40)) +
			" " + m.theme.SessionMeta.Render(util.IntToString(sess.MessageCount())+" messages")

		style := m.theme.SessionItem
		if i == m.sessionIndex {
			style = m.theme.SessionItemSelected
		}
		marker := "  "
		if sess.ID == m.activeSessionID {
			marker = "* "
		}
		b.WriteString(style.Render(marker + line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.SessionMeta.Render("enter switch · d delete · esc close"))

	return m.theme.SessionList.Render(b.String())
}

// helpView renders the grouped keyboard shortcuts.
func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")

	for _, group := range m.keyMap.FullHelp() {
		for _, binding := range group {
			help := binding.Help()
			b.WriteString(m.theme.ShortcutKey.Render(padRight(help.Key, 12)))
			b.WriteString(m.theme.ShortcutDesc.Render(help.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.HeaderTitle.Render("Commands"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.ShortcutDesc.Render(commandHelp))
	b.WriteString("\n\n")
	b.WriteString(m.theme.SessionMeta.Render("press any key to close"))

	return m.theme.Container.Render(b.String())
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
