// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - Full-screen TUI launcher.

package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/studyhall-tui/internal/study"
	"github.com/jeranaias/studyhall-tui/internal/ui/chat"
	uistyles "github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// HandleTUI starts the full-screen chat TUI.
func HandleTUI(args *Args) error {
	if !IsTTY() || !IsStdoutTTY() {
		return &TTYRequiredError{Operation: "run the TUI"}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, store, err := openHistory(cfg)
	if err != nil {
		return err
	}

	client := newClient(cfg, args)
	tutor := study.NewTutor(client, store)

	m := chat.New(uistyles.NewTheme(), store, tutor, Version)

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return WrapError(err, "TUI exited with an error")
	}
	return nil
}
