// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// DefaultSessionTitle is the title given to a session before its first user
// message names it.
const DefaultSessionTitle = "New Chat"

// titleWordCount is how many leading words of the first user message become
// the session title.
const titleWordCount = 4

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession holds an ordered list of messages plus metadata.
type ChatSession struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Messages    []*ChatMessage `json:"messages"`
	CreatedAt   time.Time      `json:"created_at"`
	LastUpdated time.Time      `json:"last_updated"`
}

// NewChatSession creates an empty session with the given title. An empty
// title defaults to "New Chat".
func NewChatSession(title string) *ChatSession {
	if title == "" {
		title = DefaultSessionTitle
	}
	now := time.Now()
	return &ChatSession{
		ID:          GenerateSessionID(),
		Title:       title,
		Messages:    make([]*ChatMessage, 0),
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and derives the title from the first user
// message if the session is still named "New Chat". The title is derived at
// most once and never re-derived afterward.
func (s *ChatSession) AddMessage(msg *ChatMessage) {
	s.Messages = append(s.Messages, msg)
	s.LastUpdated = time.Now()

	if s.Title == DefaultSessionTitle && msg.Role == RoleUser {
		s.Title = DeriveTitle(msg.Content)
	}
}

// GetMessageByID returns the message with the given ID, or nil.
func (s *ChatSession) GetMessageByID(id string) *ChatMessage {
	for _, msg := range s.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// RemoveMessage removes a message by ID. Returns true if a message was
// removed.
func (s *ChatSession) RemoveMessage(id string) bool {
	for i, msg := range s.Messages {
		if msg.ID == id {
			s.Messages = append(s.Messages[:i], s.Messages[i+1:]...)
			s.LastUpdated = time.Now()
			return true
		}
	}
	return false
}

// GetLastMessage returns the most recent message, or nil if empty.
func (s *ChatSession) GetLastMessage() *ChatMessage {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// MessageCount returns the number of messages.
func (s *ChatSession) MessageCount() int {
	return len(s.Messages)
}

// IsEmpty returns true if there are no messages.
func (s *ChatSession) IsEmpty() bool {
	return len(s.Messages) == 0
}

// Preview returns a short single-line preview from the first user message.
func (s *ChatSession) Preview() string {
	for _, msg := range s.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			return msg.Preview(80)
		}
	}
	return ""
}

// Clone returns a deep copy of the session. Mutating the clone never touches
// the original; the session store relies on this for its copy-on-write
// updates.
func (s *ChatSession) Clone() *ChatSession {
	clone := &ChatSession{
		ID:          s.ID,
		Title:       s.Title,
		CreatedAt:   s.CreatedAt,
		LastUpdated: s.LastUpdated,
		Messages:    make([]*ChatMessage, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		clone.Messages[i] = msg.Clone()
	}
	return clone
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// DeriveTitle builds a session title from the first words of a message:
// the first four words, with an ellipsis when the message is longer.
func DeriveTitle(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return DefaultSessionTitle
	}
	if len(fields) <= titleWordCount {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:titleWordCount], " ") + "..."
}

// GenerateSessionID creates a unique session ID.
func GenerateSessionID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "sess_" + hex.EncodeToString(bytes)
}
