// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/session"
	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// memoryRepo keeps sessions in memory for tests.
type memoryRepo struct {
	sessions []*model.ChatSession
}

func (r *memoryRepo) LoadSessions() ([]*model.ChatSession, error) {
	return r.sessions, nil
}

func (r *memoryRepo) SaveSessions(sessions []*model.ChatSession) error {
	r.sessions = sessions
	return nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := session.NewStore(&memoryRepo{})
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return New(styles.NewTheme(), store, nil, "test")
}

// applyCommand runs a slash command and re-asserts the concrete model type.
func applyCommand(t *testing.T, m Model, input string) Model {
	t.Helper()
	next, _ := m.runCommand(input)
	return next.(Model)
}

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantArg  string
	}{
		{"/new", "new", ""},
		{"/new Physics revision", "new", "Physics revision"},
		{"/SWITCH abc", "switch", "abc"},
		{"  /delete  x  ", "delete", "x"},
		{"/help", "help", ""},
	}

	for _, tt := range tests {
		name, arg := parseCommand(tt.input)
		if name != tt.wantName || arg != tt.wantArg {
			t.Errorf("parseCommand(%q) = (%q, %q), want (%q, %q)",
				tt.input, name, arg, tt.wantName, tt.wantArg)
		}
	}
}

// =============================================================================
// LIVE STREAM BUFFER
// =============================================================================

func TestLiveStreamMonotonic(t *testing.T) {
	ls := &liveStream{}

	ls.Set("Photo")
	ls.Set("Photosynthesis")
	if got := ls.Snapshot(); got != "Photosynthesis" {
		t.Errorf("Snapshot = %q", got)
	}

	// A stale shorter write must not roll the text back.
	ls.Set("Photo")
	if got := ls.Snapshot(); got != "Photosynthesis" {
		t.Errorf("Snapshot after stale write = %q", got)
	}

	ls.Reset()
	if got := ls.Snapshot(); got != "" {
		t.Errorf("Snapshot after reset = %q", got)
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func TestNewSessionCommand(t *testing.T) {
	m := newTestModel(t)
	before := m.store.Count()

	m = applyCommand(t, m, "/new Algebra")

	if m.store.Count() != before+1 {
		t.Fatalf("session count = %d, want %d", m.store.Count(), before+1)
	}
	active := m.store.Active()
	if active.Title != "Algebra" {
		t.Errorf("active title = %q", active.Title)
	}
	if m.ActiveSessionID() != active.ID {
		t.Error("model not bound to new session")
	}
}

func TestSwitchCommandByTitle(t *testing.T) {
	m := newTestModel(t)
	m = applyCommand(t, m, "/new Chemistry")
	m = applyCommand(t, m, "/new Biology")

	m = applyCommand(t, m, "/switch chem")

	if got := m.store.Active().Title; got != "Chemistry" {
		t.Errorf("active = %q, want Chemistry", got)
	}
}

func TestDeleteLastSessionRefused(t *testing.T) {
	m := newTestModel(t)
	only := m.store.Active()

	m = applyCommand(t, m, "/delete "+only.ID)

	if m.store.Count() != 1 {
		t.Errorf("count = %d, want 1", m.store.Count())
	}
	if !m.statusError {
		t.Error("expected an error status")
	}
}

func TestUnknownCommand(t *testing.T) {
	m := newTestModel(t)
	m = applyCommand(t, m, "/frobnicate")

	if !m.statusError || !strings.Contains(m.status, "frobnicate") {
		t.Errorf("status = %q (error=%v)", m.status, m.statusError)
	}
}

func TestRateLastAnswer(t *testing.T) {
	m := newTestModel(t)
	sess := m.store.Active()
	m.store.AppendMessage(sess.ID, model.NewUserMessage("What is pH?"))
	m.store.AppendMessage(sess.ID, model.NewMessage(model.RoleAssistant, "A measure of acidity."))

	m = applyCommand(t, m, "/like")

	msgs := m.store.Active().Messages
	last := msgs[len(msgs)-1]
	if !last.Liked {
		t.Error("last answer should be liked")
	}
}

func TestRateWithoutAnswer(t *testing.T) {
	m := newTestModel(t)
	m = applyCommand(t, m, "/dislike")
	if !m.statusError {
		t.Error("expected an error status with no answers")
	}
}

// =============================================================================
// UPDATE LOOP
// =============================================================================

func TestWindowResize(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)

	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d", m.width, m.height)
	}
	if m.viewport.Width != 120 {
		t.Errorf("viewport width = %d", m.viewport.Width)
	}
}

func TestStreamCompleteClearsStreamingState(t *testing.T) {
	m := newTestModel(t)
	m.state = StateStreaming

	next, _ := m.Update(StreamCompleteMsg{Message: model.NewMessage(model.RoleAssistant, "done")})
	m = next.(Model)

	if m.state != StateReady {
		t.Errorf("state = %v, want StateReady", m.state)
	}
}

func TestStreamCompleteWithErrorSetsStatus(t *testing.T) {
	m := newTestModel(t)
	m.state = StateStreaming

	next, _ := m.Update(StreamCompleteMsg{Err: errFake})
	m = next.(Model)

	if !m.statusError || m.status == "" {
		t.Errorf("status = %q (error=%v)", m.status, m.statusError)
	}
}

func TestCancelKeepsStatusOverLateCompletion(t *testing.T) {
	m := newTestModel(t)
	m.state = StateStreaming

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if m.state != StateReady {
		t.Fatalf("state = %v, want StateReady", m.state)
	}
	if m.status != "Answer cancelled" {
		t.Fatalf("status = %q, want cancel notice", m.status)
	}

	// The cancelled turn drains in the background and reports a late
	// completion carrying a context error.
	next, _ = m.Update(StreamCompleteMsg{Err: errFake})
	m = next.(Model)

	if m.status != "Answer cancelled" || m.statusError {
		t.Errorf("status = %q (error=%v), want cancel notice preserved",
			m.status, m.statusError)
	}
}

var errFake = &fakeError{}

type fakeError struct{}

func (*fakeError) Error() string { return "boom" }

func TestSessionPickerViewListsSessions(t *testing.T) {
	m := newTestModel(t)
	m = applyCommand(t, m, "/new Geometry")
	m.state = StateSessions

	out := m.View()
	if !strings.Contains(out, "Geometry") {
		t.Errorf("picker missing session title:\n%s", out)
	}
}
