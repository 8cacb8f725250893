// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot tutoring questions from the command line.
//
// Output modes:
//   - TTY: response is collected and rendered as markdown
//   - Piped: response streams as plain text, suitable for scripts
//   - --json: structured response envelope on stdout

package cli

import (
	"fmt"

	"github.com/jeranaias/studyhall-tui/internal/study"
)

// askResult is the JSON payload for the ask command.
type askResult struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Model    string `json:"model"`
}

// HandleAsk processes the ask command: a single tutoring question with no
// session persistence.
func HandleAsk(args *Args) error {
	question := args.Query
	if question == "" {
		return ErrMissingArgument("question", `studyhall ask "why does ice float?"`)
	}

	// Optional file context is appended below the question.
	if args.File != "" {
		context, err := readFileForContext(args.File)
		if err != nil {
			return err
		}
		question = question + "\n\n" + context
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newClient(cfg, args)
	tutor := study.NewTutor(client, nil)

	ctx, cancel := commandContext(cfg)
	defer cancel()

	if args.JSON {
		answer, err := tutor.AskOnce(ctx, question, nil)
		if err != nil {
			return NewCommandError("ask", "query", "request failed", err)
		}
		return NewJSONResponse("ask", askResult{
			Question: args.Query,
			Answer:   answer,
			Model:    client.Model(),
		}).Print()
	}

	// Markdown rendering needs the complete response, so on a TTY the
	// stream is collected first. Piped output streams as it arrives.
	if IsStdoutTTY() {
		progressf(args, "%s\n", DimStyle.Render("Asking "+client.Model()+"..."))
		answer, err := tutor.AskOnce(ctx, question, nil)
		if err != nil {
			return NewCommandError("ask", "query", "request failed", err)
		}
		displayResponse(answer)
		return nil
	}

	printer := &streamPrinter{}
	answer, err := tutor.AskOnce(ctx, question, printer.Tick)
	if err != nil {
		fmt.Println()
		return NewCommandError("ask", "query", "request failed", err)
	}
	printer.Finish(answer)
	return nil
}
