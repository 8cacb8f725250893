// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package study

import (
	"context"
	"fmt"

	"github.com/jeranaias/studyhall-tui/internal/document"
	"github.com/jeranaias/studyhall-tui/internal/extract"
	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/provider"
	"github.com/jeranaias/studyhall-tui/internal/stream"
)

// =============================================================================
// SUBMISSION MARKER
// =============================================================================

// Marker grades multi-page submissions against a marking standard.
type Marker struct {
	client   Completer
	standard string

	// PageConcurrency bounds concurrent page requests (0 = unbounded).
	PageConcurrency int
}

// NewMarker creates a marker for the given marking standard name.
func NewMarker(client Completer, standard string) *Marker {
	return &Marker{client: client, standard: standard}
}

// MarkingReport aggregates one submission's marking run. The aggregate
// fields are derived only after every page has settled; failed pages are
// excluded from scoring and listed by number.
type MarkingReport struct {
	Pages       []*model.PageResult
	Questions   []model.QuestionMark
	TotalMarks  int
	MaxMarks    int
	FailedPages []int
}

// Percentage returns the overall score, or 0 when nothing was markable.
func (r *MarkingReport) Percentage() float64 {
	if r.MaxMarks == 0 {
		return 0
	}
	return float64(r.TotalMarks) / float64(r.MaxMarks) * 100
}

// Mark fires every page's marking request concurrently and aggregates once
// all pages settle. One page's failure leaves sibling pages intact.
func (m *Marker) Mark(ctx context.Context, pages []string) *MarkingReport {
	prompt := fmt.Sprintf(markerSystemPrompt, m.standard)

	processor := document.NewProcessor(func(ctx context.Context, page document.Page, publish func(string)) (string, error) {
		acc := stream.NewAccumulator(publish)
		err := m.client.ChatStream(ctx, []provider.ChatMessage{
			provider.NewSystemMessage(prompt),
			provider.NewUserMessage(page.Input),
		}, acc.ApplyFrame)
		if err != nil {
			return "", err
		}
		return acc.Text(), nil
	})
	processor.MaxConcurrent = m.PageConcurrency

	results := processor.Process(ctx, pages)

	report := &MarkingReport{
		Pages:       results,
		FailedPages: document.FailedPages(results),
	}
	for _, pr := range results {
		if !pr.IsComplete {
			continue
		}
		for _, q := range extract.QuestionMarks(pr.Content) {
			report.Questions = append(report.Questions, q)
			report.TotalMarks += q.AwardedMarks
			report.MaxMarks += q.MaxMarks
		}
	}
	return report
}
