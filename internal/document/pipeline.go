// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"context"
	"strings"
	"sync"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// PAGE PIPELINE
// =============================================================================

// Page is one page's input to the pipeline.
type Page struct {
	Number int // 1-based
	Input  string
}

// Runner executes one page's extraction. publish receives the accumulated
// partial content on every tick; the returned string is the final content.
type Runner func(ctx context.Context, page Page, publish func(partial string)) (string, error)

// Processor fans page requests out concurrently and joins on all of them
// settling.
type Processor struct {
	run Runner

	// MaxConcurrent bounds in-flight pages (0 = unbounded).
	MaxConcurrent int
}

// NewProcessor creates a processor around the given page runner.
func NewProcessor(run Runner) *Processor {
	return &Processor{run: run}
}

// Process runs every page concurrently and returns once all have settled.
// Each result slot is owned exclusively by its page's goroutine until the
// join, so the slice needs no locking.
func (p *Processor) Process(ctx context.Context, inputs []string) []*model.PageResult {
	results := make([]*model.PageResult, len(inputs))
	for i := range inputs {
		results[i] = model.NewPageResult(i + 1)
	}

	var sem chan struct{}
	if p.MaxConcurrent > 0 {
		sem = make(chan struct{}, p.MaxConcurrent)
	}

	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func(pr *model.PageResult, page Page) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			content, err := p.run(ctx, page, func(partial string) {
				pr.Content = partial
			})
			if err != nil {
				pr.MarkFailed(err.Error())
				return
			}
			pr.MarkComplete(content)
		}(results[i], Page{Number: i + 1, Input: input})
	}
	wg.Wait()

	return results
}

// =============================================================================
// AGGREGATES
// =============================================================================

// CombineContent joins the content of completed pages in page order. Failed
// pages are excluded; they are reported through their own error state.
func CombineContent(results []*model.PageResult) string {
	var parts []string
	for _, pr := range results {
		if pr.IsComplete && pr.Content != "" {
			parts = append(parts, pr.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// CompletedCount returns how many pages finished successfully.
func CompletedCount(results []*model.PageResult) int {
	n := 0
	for _, pr := range results {
		if pr.IsComplete {
			n++
		}
	}
	return n
}

// FailedPages returns the 1-based page numbers that ended in error.
func FailedPages(results []*model.PageResult) []int {
	var pages []int
	for _, pr := range results {
		if pr.Error != "" {
			pages = append(pages, pr.PageNumber)
		}
	}
	return pages
}
