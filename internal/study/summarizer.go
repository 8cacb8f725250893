// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package study

import (
	"context"

	"github.com/jeranaias/studyhall-tui/internal/document"
	"github.com/jeranaias/studyhall-tui/internal/extract"
	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/provider"
	"github.com/jeranaias/studyhall-tui/internal/stream"
)

// =============================================================================
// DOCUMENT SUMMARIZER
// =============================================================================

// Mindmap generation status strings, reported alongside the tree instead of
// a blocking error.
const (
	MindmapStatusOK       = "generated"
	MindmapStatusFallback = "fallback tree (model output was not usable)"
)

// Summarizer produces per-page summaries and an optional mindmap.
type Summarizer struct {
	client Completer

	// PageConcurrency bounds concurrent page requests (0 = unbounded).
	PageConcurrency int
}

// NewSummarizer creates a document summarizer.
func NewSummarizer(client Completer) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize streams a summary for every page concurrently and joins on all
// of them settling. A failed page carries its error badge; sibling pages are
// unaffected.
func (s *Summarizer) Summarize(ctx context.Context, pages []string) []*model.PageResult {
	processor := document.NewProcessor(func(ctx context.Context, page document.Page, publish func(string)) (string, error) {
		acc := stream.NewAccumulator(publish)
		err := s.client.ChatStream(ctx, []provider.ChatMessage{
			provider.NewSystemMessage(summarizerSystemPrompt),
			provider.NewUserMessage(page.Input),
		}, acc.ApplyFrame)
		if err != nil {
			return "", err
		}
		return acc.Text(), nil
	})
	processor.MaxConcurrent = s.PageConcurrency

	return processor.Process(ctx, pages)
}

// Mindmap builds a topic tree from finished summary text in two stages:
// first a plain-text hierarchy, then its JSON form. Any failure at either
// stage falls back to a tree derived from the summary's headings; the caller
// always gets a renderable tree plus a status string, never an error.
func (s *Summarizer) Mindmap(ctx context.Context, summary, title string) (*model.MindmapNode, string) {
	structure, err := s.client.Generate(ctx, mindmapStructurePrompt, summary)
	if err != nil {
		return extract.FallbackMindmap(summary, title), MindmapStatusFallback
	}

	jsonOut, err := s.client.Generate(ctx, mindmapJSONPrompt, structure)
	if err != nil {
		return extract.FallbackMindmap(summary, title), MindmapStatusFallback
	}

	root, err := extract.ParseMindmap(jsonOut)
	if err != nil {
		return extract.FallbackMindmap(summary, title), MindmapStatusFallback
	}
	return root, MindmapStatusOK
}
