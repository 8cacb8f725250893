// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package study

import (
	"context"

	"github.com/jeranaias/studyhall-tui/internal/cite"
)

// =============================================================================
// CITATION GENERATOR
// =============================================================================

// CitationResult pairs a parsed citation with its formatted rendering.
type CitationResult struct {
	Citation  cite.Citation
	Formatted string
}

// Citer extracts sources from text and formats them in a reference style.
type Citer struct {
	client Completer
}

// NewCiter creates a citation generator.
func NewCiter(client Completer) *Citer {
	return &Citer{client: client}
}

// Cite asks the model for the sources cited in text and formats each one in
// the requested style. An empty list is a valid result; a source the model
// reported incompletely is withheld rather than rendered half-filled.
func (c *Citer) Cite(ctx context.Context, text string, style cite.Style) ([]CitationResult, error) {
	out, err := c.client.Generate(ctx, citationSystemPrompt, text)
	if err != nil {
		return nil, err
	}

	citations := cite.ParseCitations(out)
	results := make([]CitationResult, 0, len(citations))
	for _, citation := range citations {
		formatted, err := cite.Format(citation, style)
		if err != nil {
			return nil, err
		}
		results = append(results, CitationResult{Citation: citation, Formatted: formatted})
	}
	return results, nil
}
