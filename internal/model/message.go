// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Tutor"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// CHAT MESSAGE
// =============================================================================

// ChatMessage represents a single message in a tutoring session.
//
// Content is mutated in place only for the assistant message currently being
// generated; user messages change only through an explicit Edit, which
// preserves the original content the first time.
type ChatMessage struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Feedback and edit state
	Liked           bool   `json:"liked,omitempty"`
	Disliked        bool   `json:"disliked,omitempty"`
	Edited          bool   `json:"edited,omitempty"`
	OriginalContent string `json:"original_content,omitempty"`

	// Streaming state (not persisted)
	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *ChatMessage {
	return &ChatMessage{
		ID:        GenerateMessageID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *ChatMessage {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new empty assistant message in streaming state.
func NewAssistantMessage() *ChatMessage {
	return &ChatMessage{
		ID:          GenerateMessageID(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// AppendToken appends a streamed token to an in-flight assistant message.
func (m *ChatMessage) AppendToken(token string) {
	if m.IsStreaming {
		m.streamContent.WriteString(token)
	}
}

// FinalizeStream completes streaming, merging the streamed content into
// Content. Further AppendToken calls are no-ops.
func (m *ChatMessage) FinalizeStream() {
	if !m.IsStreaming {
		return
	}
	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false
}

// GetDisplayContent returns the content to display (streaming or final).
func (m *ChatMessage) GetDisplayContent() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// Edit replaces the content of a user message. The original content is
// preserved the first time only; later edits keep the first original.
func (m *ChatMessage) Edit(content string) {
	if m.Role != RoleUser {
		return
	}
	if !m.Edited {
		m.OriginalContent = m.Content
		m.Edited = true
	}
	m.Content = content
}

// SetLiked marks the message liked, clearing any dislike.
func (m *ChatMessage) SetLiked() {
	m.Liked = true
	m.Disliked = false
}

// SetDisliked marks the message disliked, clearing any like.
func (m *ChatMessage) SetDisliked() {
	m.Disliked = true
	m.Liked = false
}

// Preview returns a truncated single-line preview of the message content.
func (m *ChatMessage) Preview(maxLen int) string {
	content := strings.Join(strings.Fields(m.GetDisplayContent()), " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *ChatMessage) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// Clone returns a copy of the message. The streaming builder is not copied;
// clones of an in-flight message carry its current streamed content.
func (m *ChatMessage) Clone() *ChatMessage {
	clone := &ChatMessage{
		ID:              m.ID,
		Role:            m.Role,
		Timestamp:       m.Timestamp,
		Content:         m.GetDisplayContent(),
		Liked:           m.Liked,
		Disliked:        m.Disliked,
		Edited:          m.Edited,
		OriginalContent: m.OriginalContent,
	}
	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GenerateMessageID creates a unique message ID from the current time plus
// random bytes.
func GenerateMessageID() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + hex.EncodeToString(bytes)
}
