// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain readline chat REPL.
//
// A lighter alternative to the full TUI for slow terminals and SSH
// sessions. Turns stream as plain text and persist to the same session
// history the TUI uses.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/studyhall-tui/internal/config"
	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/session"
	"github.com/jeranaias/studyhall-tui/internal/study"
)

const chatReplHelp = `Commands:
  /new      Start a new session
  /help     Show this help
  /quit     Exit (also Ctrl-D)`

// HandleChat runs the plain readline chat loop.
func HandleChat(args *Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
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

	active := store.Active()
	if active == nil {
		return NewCommandError("chat", "start", "no active session", nil)
	}
	sessionID := active.ID

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	loadReplHistory(line, historyPath)
	defer saveReplHistory(line, historyPath)

	if !args.Quiet {
		fmt.Printf("Chatting with %s in session %q. Type /help for commands.\n",
			client.Model(), active.Title)
	}

	for {
		input, err := line.Prompt("you> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return WrapError(err, "failed to read input")
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			done, err := runReplCommand(store, &sessionID, input)
			if err != nil {
				fmt.Println(WarningStyle.Render(err.Error()))
				continue
			}
			if done {
				return nil
			}
			continue
		}

		if err := chatTurn(cfg, tutor, sessionID, input); err != nil {
			fmt.Println(WarningStyle.Render("Connection problem, the answer may be incomplete."))
		}
	}
}

// chatTurn streams one tutoring turn to stdout.
func chatTurn(cfg *config.Config, tutor *study.Tutor, sessionID, input string) error {
	timeout := time.Duration(cfg.Provider.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	printer := &streamPrinter{}
	msg, err := tutor.Ask(ctx, sessionID, input, printer.Tick)
	if msg != nil {
		printer.Finish(msg.Content)
	}
	return err
}

// runReplCommand handles slash commands. Returns done=true to exit the loop.
func runReplCommand(store *session.Store, sessionID *string, input string) (bool, error) {
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit":
		return true, nil
	case "/new":
		id, err := store.CreateSession(model.DefaultSessionTitle)
		if err != nil {
			return false, WrapError(err, "could not create session")
		}
		*sessionID = id
		fmt.Println("Started a new session.")
		return false, nil
	case "/help":
		fmt.Println(chatReplHelp)
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q, try /help", input)
	}
}

// =============================================================================
// REPL HISTORY FILE
// =============================================================================

// replHistoryPath is the readline history file location, separate from the
// session history.
func replHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chat_history")
}

func loadReplHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	line.ReadHistory(f)
}

func saveReplHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
