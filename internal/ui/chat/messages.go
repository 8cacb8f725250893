// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamTickMsg drives the capped-rate repaint while a response streams.
type StreamTickMsg struct {
	Time time.Time
}

// StreamCompleteMsg signals that the tutor turn finished. Message is the
// persisted assistant message; Err carries the transport failure when the
// content is partial or an apology.
type StreamCompleteMsg struct {
	Message *model.ChatMessage
	Err     error
}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusMsg shows a transient line in the status bar.
type StatusMsg struct {
	Text    string
	IsError bool
}

// ClearStatusMsg clears the transient status line.
type ClearStatusMsg struct{}

// statusLinger is how long a transient status stays on screen.
const statusLinger = 4 * time.Second
