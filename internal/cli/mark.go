// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// mark.go - Submission marking against a marking standard.

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/study"
	"github.com/jeranaias/studyhall-tui/internal/ui/components"
	uistyles "github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// markResult is the JSON payload for the mark command.
type markResult struct {
	Standard    string               `json:"standard"`
	Questions   []model.QuestionMark `json:"questions"`
	TotalMarks  int                  `json:"total_marks"`
	MaxMarks    int                  `json:"max_marks"`
	Percentage  float64              `json:"percentage"`
	PageCount   int                  `json:"page_count"`
	FailedPages []int                `json:"failed_pages,omitempty"`
}

// HandleMark processes the mark command: the submission is split into pages,
// each page is marked concurrently, and the aggregated report is printed.
func HandleMark(args *Args) error {
	text, err := readDocumentText(args, "studyhall mark homework.txt")
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pages := markPages(text, args)
	if len(pages) == 0 {
		return NewValidationError("submission", "", "submission is empty")
	}

	standard := args.Options["standard"]
	if standard == "" {
		standard = cfg.Study.MarkingStandard
	}

	client := newClient(cfg, args)
	marker := study.NewMarker(client, standard)
	if cfg.Study.PageConcurrency > 0 {
		marker.PageConcurrency = cfg.Study.PageConcurrency
	}

	ctx, cancel := commandContext(cfg)
	defer cancel()

	progressf(args, "Marking %d page(s) against %q...\n", len(pages), standard)
	report := marker.Mark(ctx, pages)

	if args.JSON {
		return NewJSONResponse("mark", markResult{
			Standard:    standard,
			Questions:   report.Questions,
			TotalMarks:  report.TotalMarks,
			MaxMarks:    report.MaxMarks,
			Percentage:  report.Percentage(),
			PageCount:   len(pages),
			FailedPages: report.FailedPages,
		}).Print()
	}

	if IsStdoutTTY() {
		sheet := components.NewMarkSheet(report, uistyles.NewTheme())
		fmt.Println(sheet.View())
		return nil
	}

	fmt.Print(formatReportPlain(report, standard))
	return nil
}

// markPages splits the submission, honoring a --pages size override.
func markPages(text string, args *Args) []string {
	if raw := args.Options["pages"]; raw != "" {
		if size, err := strconv.Atoi(raw); err == nil {
			return splitPagesBySize(text, size)
		}
	}
	return splitPages(text)
}

// formatReportPlain renders a marking report for piped output.
func formatReportPlain(report *study.MarkingReport, standard string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Marking standard: %s\n", standard)
	for _, q := range report.Questions {
		fmt.Fprintf(&b, "Question %d: %d/%d", q.QuestionNumber, q.AwardedMarks, q.MaxMarks)
		if q.Feedback != "" {
			b.WriteString(" - ")
			b.WriteString(q.Feedback)
		}
		b.WriteString("\n")
	}
	if len(report.FailedPages) > 0 {
		fmt.Fprintf(&b, "Pages not marked: %s\n", joinInts(report.FailedPages))
	}
	fmt.Fprintf(&b, "Total: %d/%d (%.1f%%)\n", report.TotalMarks, report.MaxMarks, report.Percentage())
	return b.String()
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
