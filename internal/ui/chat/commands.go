// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/session"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const commandHelp = `/new [title]      start a new session
/sessions         open the session picker
/switch <id>      switch session by id prefix or title
/delete <id>      delete a session
/like             mark the last answer helpful
/dislike          mark the last answer unhelpful
/help             show keyboard shortcuts
/quit             exit`

// parseCommand splits "/switch abc def" into ("switch", "abc def").
func parseCommand(input string) (name, arg string) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(input), "/")
	parts := strings.SplitN(trimmed, " ", 2)
	name = strings.ToLower(parts[0])
	if len(parts) == 2 {
		arg = strings.TrimSpace(parts[1])
	}
	return name, arg
}

// runCommand executes a slash command against the session store.
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	name, arg := parseCommand(input)

	switch name {
	case "new":
		title := arg
		if title == "" {
			title = model.DefaultSessionTitle
		}
		id, err := m.store.CreateSession(title)
		if err != nil {
			return m.statusResult(err.Error(), true)
		}
		m.activeSessionID = id
		m.refreshTranscript()
		return m.statusResult("Started a new session", false)

	case "sessions":
		m.state = StateSessions
		m.sessionIndex = 0
		return m, nil

	case "switch":
		if arg == "" {
			return m.statusResult("Usage: /switch <id or title>", true)
		}
		sess := m.findSession(arg)
		if sess == nil {
			return m.statusResult("No session matches "+arg, true)
		}
		if err := m.store.SwitchActive(sess.ID); err != nil {
			return m.statusResult(err.Error(), true)
		}
		m.refreshTranscript()
		return m.statusResult("Switched to "+sess.Title, false)

	case "delete":
		if arg == "" {
			return m.statusResult("Usage: /delete <id or title>", true)
		}
		sess := m.findSession(arg)
		if sess == nil {
			return m.statusResult("No session matches "+arg, true)
		}
		if err := m.store.DeleteSession(sess.ID); err != nil {
			if err == session.ErrLastSession {
				return m.statusResult("Cannot delete the only session", true)
			}
			return m.statusResult(err.Error(), true)
		}
		m.refreshTranscript()
		return m.statusResult("Deleted "+sess.Title, false)

	case "like":
		return m.rateLastAnswer(true)

	case "dislike":
		return m.rateLastAnswer(false)

	case "help":
		m.state = StateHelp
		return m, nil

	case "quit", "exit":
		return m, tea.Quit
	}

	return m.statusResult("Unknown command: /"+name, true)
}

// statusResult sets a transient status and schedules its expiry.
func (m Model) statusResult(text string, isError bool) (tea.Model, tea.Cmd) {
	m.setStatus(text, isError)
	return m, clearStatusCmd()
}

// findSession matches by ID prefix first, then by case-insensitive title
// substring.
func (m Model) findSession(query string) *model.ChatSession {
	sessions := m.store.Sessions()

	for _, sess := range sessions {
		if strings.HasPrefix(sess.ID, query) {
			return sess
		}
	}
	lower := strings.ToLower(query)
	for _, sess := range sessions {
		if strings.Contains(strings.ToLower(sess.Title), lower) {
			return sess
		}
	}
	return nil
}

// rateLastAnswer toggles feedback on the most recent assistant message.
func (m Model) rateLastAnswer(liked bool) (tea.Model, tea.Cmd) {
	sess := m.store.Active()
	if sess == nil {
		return m.statusResult("No active session", true)
	}

	for i := len(sess.Messages) - 1; i >= 0; i-- {
		msg := sess.Messages[i]
		if msg.Role != model.RoleAssistant {
			continue
		}
		patch := session.MessagePatch{}
		if liked {
			v := true
			patch.Liked = &v
		} else {
			v := true
			patch.Disliked = &v
		}
		if err := m.store.UpdateMessage(sess.ID, msg.ID, patch); err != nil {
			return m.statusResult(err.Error(), true)
		}
		m.refreshTranscript()
		if liked {
			return m.statusResult("Marked helpful", false)
		}
		return m.statusResult("Marked unhelpful", false)
	}
	return m.statusResult("Nothing to rate yet", true)
}
