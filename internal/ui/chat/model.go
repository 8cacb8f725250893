// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/session"
	"github.com/jeranaias/studyhall-tui/internal/study"
	"github.com/jeranaias/studyhall-tui/internal/ui/components"
	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State is the current mode of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a streamed answer
	StateSessions               // Session picker overlay
	StateHelp                   // Help overlay
)

// inputCharLimit bounds a single question.
const inputCharLimit = 4096

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the tutor view.
type Model struct {
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Domain
	store           *session.Store
	tutor           *study.Tutor
	activeSessionID string

	// Streaming
	live         *liveStream
	streamCtx    context.Context
	cancelStream context.CancelFunc

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	spin      components.Spinner
	header    components.Header
	statusBar components.StatusBar

	keyMap KeyMap
	state  State

	// Session picker
	sessionIndex int

	// Transient status line
	status      string
	statusError bool

	version string
}

// New creates the chat model over the given store and tutor.
func New(theme *styles.Theme, store *session.Store, tutor *study.Tutor, version string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask your tutor anything..."
	ti.CharLimit = inputCharLimit
	ti.Focus()

	vp := viewport.New(80, 20)

	m := Model{
		theme:    theme,
		store:    store,
		tutor:    tutor,
		live:     &liveStream{},
		viewport: vp,
		input:    ti,
		spin:     components.NewSpinner(theme),
		header:   components.NewHeader(theme),
		keyMap:   DefaultKeyMap(),
		state:    StateReady,
		version:  version,
	}
	m.statusBar = components.NewStatusBar(theme)

	if active := store.Active(); active != nil {
		m.activeSessionID = active.ID
	}
	m.refreshTranscript()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// ActiveSessionID returns the session the view is bound to.
func (m Model) ActiveSessionID() string {
	return m.activeSessionID
}

// setStatus replaces the transient status line.
func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusError = isError
}

// refreshTranscript rerenders the persisted transcript into the viewport and
// pins the view to the bottom.
func (m *Model) refreshTranscript() {
	sess := m.store.Active()
	if sess == nil {
		m.viewport.SetContent("")
		return
	}
	m.activeSessionID = sess.ID
	m.header.SessionTitle = sess.Title
	m.header.MessageCount = sess.MessageCount()

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	m.viewport.SetContent(components.RenderTranscript(sess, m.theme, width))
	m.viewport.GotoBottom()
}

// beginStream transitions into streaming and kicks off the tutor turn.
func (m *Model) beginStream(question string) tea.Cmd {
	m.live.Reset()
	m.streamCtx, m.cancelStream = context.WithCancel(context.Background())
	m.state = StateStreaming
	m.input.Reset()
	m.setStatus("", false)

	return tea.Batch(m.askCmd(question), streamTickCmd(), m.spin.Start())
}

// endStream tears down streaming state.
func (m *Model) endStream() {
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}
	m.spin.Stop()
	m.state = StateReady
}
