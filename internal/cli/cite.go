// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cite.go - Citation extraction and reference formatting.

package cli

import (
	"fmt"

	"github.com/jeranaias/studyhall-tui/internal/cite"
	"github.com/jeranaias/studyhall-tui/internal/study"
)

// citeResult is the JSON payload for the cite command.
type citeResult struct {
	Style     cite.Style  `json:"style"`
	Citations []citeEntry `json:"citations"`
	Count     int         `json:"count"`
}

type citeEntry struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors,omitempty"`
	Year      string   `json:"year,omitempty"`
	Source    string   `json:"source,omitempty"`
	URL       string   `json:"url,omitempty"`
	Formatted string   `json:"formatted"`
}

// HandleCite processes the cite command: sources cited in the input are
// extracted and rendered in the requested reference style.
func HandleCite(args *Args) error {
	text, err := gatherInputText(args, `studyhall cite --file bibliography.txt --style mla`)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	styleName := args.Options["style"]
	if styleName == "" {
		styleName = cfg.Study.CitationStyle
	}
	style, err := cite.ParseStyle(styleName)
	if err != nil {
		return NewValidationErrorWithExample("style", styleName,
			"unsupported citation style", "supported: apa, mla, harvard, chicago")
	}

	client := newClient(cfg, args)
	citer := study.NewCiter(client)

	ctx, cancel := commandContext(cfg)
	defer cancel()

	progressf(args, "Extracting sources (%s)...\n", style)
	results, err := citer.Cite(ctx, text, style)
	if err != nil {
		return NewCommandError("cite", "extract", "request failed", err)
	}

	if args.JSON {
		entries := make([]citeEntry, 0, len(results))
		for _, r := range results {
			entries = append(entries, citeEntry{
				Title:     r.Citation.Title,
				Authors:   r.Citation.Authors,
				Year:      r.Citation.Year,
				Source:    r.Citation.Source,
				URL:       r.Citation.URL,
				Formatted: r.Formatted,
			})
		}
		return NewJSONResponse("cite", citeResult{
			Style:     style,
			Citations: entries,
			Count:     len(entries),
		}).Print()
	}

	if len(results) == 0 {
		fmt.Println("No sources found in the input.")
		return nil
	}

	for _, r := range results {
		fmt.Println(r.Formatted)
	}
	return nil
}
