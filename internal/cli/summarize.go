// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// summarize.go - Per-page document summaries with an optional topic mindmap.

package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/study"
	"github.com/jeranaias/studyhall-tui/internal/ui/components"
	uistyles "github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// summarizeResult is the JSON payload for the summarize command.
type summarizeResult struct {
	Pages         []*model.PageResult `json:"pages"`
	Summary       string              `json:"summary"`
	Mindmap       *model.MindmapNode  `json:"mindmap,omitempty"`
	MindmapStatus string              `json:"mindmap_status,omitempty"`
}

// HandleSummarize processes the summarize command. Pages are summarized
// concurrently; a failed page is reported without blocking its siblings.
func HandleSummarize(args *Args) error {
	text, err := readDocumentText(args, "studyhall summarize chapter.txt")
	if err != nil {
		return err
	}

	pages := splitPages(text)
	if len(pages) == 0 {
		return NewValidationError("document", "", "document is empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newClient(cfg, args)
	summarizer := study.NewSummarizer(client)
	if cfg.Study.PageConcurrency > 0 {
		summarizer.PageConcurrency = cfg.Study.PageConcurrency
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()

	progressf(args, "Summarizing %d page(s)...\n", len(pages))
	results := summarizer.Summarize(ctx, pages)
	summary := joinSummaries(results)

	var root *model.MindmapNode
	var mindmapStatus string
	if args.Options["mindmap"] == "true" && summary != "" {
		progressf(args, "Building mindmap...\n")
		root, mindmapStatus = summarizer.Mindmap(ctx, summary, mindmapTitle(args))
	}

	if args.JSON {
		return NewJSONResponse("summarize", summarizeResult{
			Pages:         results,
			Summary:       summary,
			Mindmap:       root,
			MindmapStatus: mindmapStatus,
		}).Print()
	}

	displaySummaries(results)
	if root != nil {
		fmt.Println()
		if IsStdoutTTY() {
			fmt.Println(SectionStyle.Render("Mindmap"))
			tree := components.NewMindmapTree(root, uistyles.NewTheme())
			fmt.Println(tree.View())
			if mindmapStatus != study.MindmapStatusOK {
				fmt.Println(DimStyle.Render(mindmapStatus))
			}
		} else {
			fmt.Print(components.RenderMindmapPlain(root))
		}
	}
	return nil
}

// mindmapTitle picks the mindmap root title: --title, then the document file
// name, then a generic fallback.
func mindmapTitle(args *Args) string {
	if title := args.Options["title"]; title != "" {
		return title
	}
	if args.File != "" {
		base := filepath.Base(args.File)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return "Summary"
}

// joinSummaries merges completed page summaries into one document summary.
func joinSummaries(results []*model.PageResult) string {
	var parts []string
	for _, page := range results {
		if page.IsComplete && page.Error == "" && page.Content != "" {
			parts = append(parts, page.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// displaySummaries prints per-page summaries with page headings.
func displaySummaries(results []*model.PageResult) {
	multi := len(results) > 1
	for i, page := range results {
		if multi {
			heading := fmt.Sprintf("Page %d", page.PageNumber)
			if IsStdoutTTY() {
				fmt.Println(SectionStyle.Render(heading))
			} else {
				if i > 0 {
					fmt.Println()
				}
				fmt.Printf("--- %s ---\n", heading)
			}
		}

		if page.Error != "" {
			if IsStdoutTTY() {
				fmt.Println(WarningStyle.Render("Summary failed: " + page.Error))
			} else {
				fmt.Println("Summary failed: " + page.Error)
			}
			continue
		}

		if IsStdoutTTY() {
			fmt.Print(renderMarkdown(page.Content))
		} else {
			fmt.Println(page.Content)
		}
	}
}
