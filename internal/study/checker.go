// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package study

import (
	"context"

	"github.com/jeranaias/studyhall-tui/internal/extract"
	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/provider"
	"github.com/jeranaias/studyhall-tui/internal/stream"
)

// =============================================================================
// MISTAKE CHECKER
// =============================================================================

// Checker finds writing mistakes in submitted text or worksheet images.
type Checker struct {
	client Completer
}

// NewChecker creates a mistake checker.
func NewChecker(client Completer) *Checker {
	return &Checker{client: client}
}

// CheckTick carries the per-tick state of a running check: the raw
// accumulated model output and the complete mistakes committed so far.
type CheckTick func(raw string, mistakes []model.Mistake)

// Check streams a mistake analysis of text. The full buffer is re-parsed on
// every tick, so already-reported mistakes never change or disappear as more
// output arrives. No mistakes is a valid result, not an error.
func (c *Checker) Check(ctx context.Context, text string, onTick CheckTick) ([]model.Mistake, error) {
	acc := stream.NewAccumulator(func(full string) {
		if onTick != nil {
			onTick(full, extract.Mistakes(full))
		}
	})

	err := c.client.ChatStream(ctx, []provider.ChatMessage{
		provider.NewSystemMessage(checkerSystemPrompt),
		provider.NewUserMessage(text),
	}, acc.ApplyFrame)

	return extract.Mistakes(acc.Text()), err
}

// WorksheetResult is the outcome of checking an uploaded worksheet: the
// transcribed text plus its mistakes.
type WorksheetResult struct {
	ExtractedText string
	Mistakes      []model.Mistake
}

// CheckWorksheet transcribes and checks a worksheet provided as an image
// data-URL. The two output sections are sliced independently, so a response
// carrying only a transcription still yields that transcription.
func (c *Checker) CheckWorksheet(ctx context.Context, imageDataURL string, onTick CheckTick) (*WorksheetResult, error) {
	acc := stream.NewAccumulator(func(full string) {
		if onTick != nil {
			_, mistakes := extract.TextAndMistakes(full)
			onTick(full, mistakes)
		}
	})

	err := c.client.ChatStream(ctx, []provider.ChatMessage{
		provider.NewSystemMessage(extractCheckerSystemPrompt),
		provider.NewImageMessage("Check this worksheet.", imageDataURL),
	}, acc.ApplyFrame)

	text, mistakes := extract.TextAndMistakes(acc.Text())
	return &WorksheetResult{ExtractedText: text, Mistakes: mistakes}, err
}
