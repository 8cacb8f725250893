// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// write.go - Study content generation (essays, outlines, flashcards, notes).

package cli

import (
	"fmt"

	"github.com/jeranaias/studyhall-tui/internal/study"
)

// writeResult is the JSON payload for the write command.
type writeResult struct {
	Topic   string `json:"topic"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Model   string `json:"model"`
}

// HandleWrite processes the write command.
func HandleWrite(args *Args) error {
	topic := args.Query
	if topic == "" {
		return ErrMissingArgument("topic", `studyhall write "The water cycle" --kind outline`)
	}

	kindName := args.Options["kind"]
	if kindName == "" {
		kindName = string(study.ContentEssay)
	}
	kind, err := study.ParseContentKind(kindName)
	if err != nil {
		return NewValidationErrorWithExample("kind", kindName,
			"unknown content kind", fmt.Sprintf("supported: %v", study.ContentKinds()))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newClient(cfg, args)
	writer := study.NewWriter(client)

	ctx, cancel := commandContext(cfg)
	defer cancel()

	if args.JSON {
		content, err := writer.Write(ctx, topic, kind, nil)
		if err != nil {
			return NewCommandError("write", "generate", "request failed", err)
		}
		return NewJSONResponse("write", writeResult{
			Topic:   topic,
			Kind:    string(kind),
			Content: content,
			Model:   client.Model(),
		}).Print()
	}

	if IsStdoutTTY() {
		progressf(args, "%s\n", DimStyle.Render(fmt.Sprintf("Writing %s on %q...", kind, topic)))
		content, err := writer.Write(ctx, topic, kind, nil)
		if err != nil {
			return NewCommandError("write", "generate", "request failed", err)
		}
		displayResponse(content)
		return nil
	}

	printer := &streamPrinter{}
	content, err := writer.Write(ctx, topic, kind, printer.Tick)
	if err != nil {
		fmt.Println()
		return NewCommandError("write", "generate", "request failed", err)
	}
	printer.Finish(content)
	return nil
}
