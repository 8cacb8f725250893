// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// LIVE STREAM BUFFER
// =============================================================================

// repaintInterval caps transcript repaints at roughly 30fps. Token delivery
// can run far faster than the terminal can usefully redraw.
const repaintInterval = 33 * time.Millisecond

// liveStream holds the latest accumulated partial of the in-flight response.
// The tutor's tick callback writes from its goroutine while the Bubble Tea
// loop reads on every repaint tick, so access is mutex-guarded.
//
// Writes are monotonic: each tick carries the full text so far, so a shorter
// write than the current snapshot is stale and dropped.
type liveStream struct {
	mu      sync.Mutex
	partial string
}

// Set records a new accumulated partial.
func (ls *liveStream) Set(partial string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if len(partial) >= len(ls.partial) {
		ls.partial = partial
	}
}

// Snapshot returns the current partial text.
func (ls *liveStream) Snapshot() string {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.partial
}

// Reset clears the buffer for a new turn.
func (ls *liveStream) Reset() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.partial = ""
}

// =============================================================================
// STREAMING COMMANDS
// =============================================================================

// streamTickCmd schedules the next repaint tick.
func streamTickCmd() tea.Cmd {
	return tea.Tick(repaintInterval, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}

// askCmd runs one tutor turn in the command goroutine. The tick callback
// feeds the live buffer; completion lands back in Update as a
// StreamCompleteMsg.
func (m *Model) askCmd(question string) tea.Cmd {
	ctx := m.streamCtx
	live := m.live
	tutor := m.tutor
	sessionID := m.activeSessionID

	return func() tea.Msg {
		msg, err := tutor.Ask(ctx, sessionID, question, live.Set)
		return StreamCompleteMsg{Message: msg, Err: err}
	}
}
