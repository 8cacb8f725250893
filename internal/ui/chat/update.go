// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages for the chat view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamTickMsg:
		if m.state != StateStreaming {
			return m, nil
		}
		m.renderStreaming()
		return m, streamTickCmd()

	case StreamCompleteMsg:
		// A cancelled turn still drains in the background; its late
		// completion must not clobber the cancel status.
		if m.state != StateStreaming {
			return m, nil
		}
		m.endStream()
		m.refreshTranscript()
		if msg.Err != nil {
			m.setStatus("Connection problem, the answer may be incomplete", true)
			return m, clearStatusCmd()
		}
		return m, nil

	case StatusMsg:
		m.setStatus(msg.Text, msg.IsError)
		return m, clearStatusCmd()

	case ClearStatusMsg:
		m.setStatus("", false)
		return m, nil
	}

	// Spinner frames and other component messages.
	if cmd := m.spin.Update(msg); cmd != nil {
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// clearStatusCmd expires the transient status line.
func clearStatusCmd() tea.Cmd {
	return tea.Tick(statusLinger, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// resize propagates new terminal dimensions to every component.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	m.header.Width = width
	m.statusBar.Width = width

	// Header, input, and status bar each take one line plus spacing.
	vpHeight := height - 6
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.input.Width = width - 4

	m.refreshTranscript()
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works everywhere. During streaming the first press cancels.
	if key.Matches(msg, m.keyMap.Quit) {
		if m.state == StateStreaming {
			m.endStream()
			m.refreshTranscript()
			m.setStatus("Answer cancelled", false)
			return m, clearStatusCmd()
		}
		return m, tea.Quit
	}

	switch m.state {
	case StateSessions:
		return m.handleSessionKey(msg)
	case StateHelp:
		m.state = StateReady
		return m, nil
	case StateStreaming:
		if key.Matches(msg, m.keyMap.Cancel) {
			m.endStream()
			m.refreshTranscript()
			m.setStatus("Answer cancelled", false)
			return m, clearStatusCmd()
		}
		// Scrolling stays live while streaming.
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()

	case key.Matches(msg, m.keyMap.NewSession):
		return m.runCommand("/new")

	case key.Matches(msg, m.keyMap.SessionList):
		m.state = StateSessions
		m.sessionIndex = 0
		return m, nil

	case key.Matches(msg, m.keyMap.Help):
		m.state = StateHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Cancel):
		m.input.Reset()
		m.setStatus("", false)
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown),
		key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSessionKey drives the session picker overlay.
func (m Model) handleSessionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sessions := m.store.Sessions()

	switch msg.String() {
	case "esc", "ctrl+s":
		m.state = StateReady
		return m, nil

	case "up", "k":
		if m.sessionIndex > 0 {
			m.sessionIndex--
		}
		return m, nil

	case "down", "j":
		if m.sessionIndex < len(sessions)-1 {
			m.sessionIndex++
		}
		return m, nil

	case "d":
		if m.sessionIndex < len(sessions) {
			target := sessions[m.sessionIndex]
			if err := m.store.DeleteSession(target.ID); err != nil {
				m.setStatus(err.Error(), true)
				return m, clearStatusCmd()
			}
			if m.sessionIndex > 0 {
				m.sessionIndex--
			}
			m.refreshTranscript()
		}
		return m, nil

	case "enter":
		if m.sessionIndex < len(sessions) {
			if err := m.store.SwitchActive(sessions[m.sessionIndex].ID); err != nil {
				m.setStatus(err.Error(), true)
				return m, clearStatusCmd()
			}
			m.refreshTranscript()
		}
		m.state = StateReady
		return m, nil
	}
	return m, nil
}

// submit sends the input line as a question or a slash command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if strings.HasPrefix(text, "/") {
		m.input.Reset()
		return m.runCommand(text)
	}

	cmd := m.beginStream(text)
	m.renderStreaming()
	return m, cmd
}

// renderStreaming paints the persisted transcript plus the in-flight answer.
func (m *Model) renderStreaming() {
	sess := m.store.Active()
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	content := components.RenderTranscript(sess, m.theme, width)
	if partial := m.live.Snapshot(); partial != "" {
		bubble := m.theme.TutorBubble.MaxWidth(width - 12).Render(partial)
		if content != "" {
			content += "\n\n"
		}
		content += bubble
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}
