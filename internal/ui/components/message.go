// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders one transcript entry as a styled bubble.
type MessageBubble struct {
	theme *styles.Theme

	Message  *model.ChatMessage
	MaxWidth int

	// ShowTimestamp adds the message time under the bubble.
	ShowTimestamp bool
}

// NewMessageBubble creates a bubble for the given message.
func NewMessageBubble(msg *model.ChatMessage, theme *styles.Theme) MessageBubble {
	return MessageBubble{
		theme:    theme,
		Message:  msg,
		MaxWidth: 80,
	}
}

// View renders the bubble with role label, body, and optional metadata.
func (b MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}

	width := b.MaxWidth
	if width < 20 {
		width = 20
	}
	bodyWidth := width - 12

	content := b.Message.Content
	// Fenced code gets highlighted; prose keeps inline code styling only.
	if strings.Contains(content, "```") {
		content = ParseCodeBlocks(content, bodyWidth)
	} else {
		content = ParseInlineCode(content)
	}

	var bubble lipgloss.Style
	switch b.Message.Role {
	case model.RoleUser:
		bubble = b.theme.UserBubble
	case model.RoleAssistant:
		bubble = b.theme.TutorBubble
	default:
		bubble = b.theme.SystemBubble
	}

	label := b.theme.HeaderSubtitle.Render(b.Message.Role.DisplayName())
	body := bubble.MaxWidth(bodyWidth).Render(content)

	lines := []string{label, body}

	var meta []string
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		meta = append(meta, b.Message.Timestamp.Format("15:04"))
	}
	if b.Message.Edited {
		meta = append(meta, "edited")
	}
	if b.Message.Liked {
		meta = append(meta, "+1")
	}
	if b.Message.Disliked {
		meta = append(meta, "-1")
	}
	if len(meta) > 0 {
		lines = append(lines, b.theme.SessionMeta.Render(strings.Join(meta, " · ")))
	}

	rendered := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if b.Message.Role == model.RoleUser {
		// User messages sit on the right, like the platform's chat view.
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(rendered)
	}
	return rendered
}

// RenderTranscript renders a whole session transcript for the viewport.
func RenderTranscript(sess *model.ChatSession, theme *styles.Theme, width int) string {
	if sess == nil || len(sess.Messages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(sess.Messages))
	for _, msg := range sess.Messages {
		bubble := NewMessageBubble(msg, theme)
		bubble.MaxWidth = width
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}
