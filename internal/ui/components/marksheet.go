// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/studyhall-tui/internal/study"
	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// MARK SHEET
// =============================================================================

// MarkSheet renders a finished marking report: per-question scores, criteria
// breakdown, nested mistakes, and the submission total.
type MarkSheet struct {
	theme *styles.Theme

	Report   *study.MarkingReport
	MaxWidth int
}

// NewMarkSheet creates a mark sheet renderer.
func NewMarkSheet(report *study.MarkingReport, theme *styles.Theme) MarkSheet {
	return MarkSheet{
		theme:    theme,
		Report:   report,
		MaxWidth: 80,
	}
}

// View renders the full report.
func (s MarkSheet) View() string {
	if s.Report == nil {
		return ""
	}

	var b strings.Builder

	for _, q := range s.Report.Questions {
		scoreStyle := lipgloss.NewStyle().
			Foreground(styles.ScoreColor(q.AwardedMarks, q.MaxMarks)).
			Bold(true)

		b.WriteString(s.theme.MarkQuestion.Render("Question " + util.IntToString(q.QuestionNumber)))
		b.WriteString("  ")
		b.WriteString(scoreStyle.Render(util.IntToString(q.AwardedMarks) + "/" + util.IntToString(q.MaxMarks)))
		b.WriteString("\n")

		if c := q.Criteria; c.Accuracy+c.Presentation+c.Methodology+c.Understanding > 0 {
			b.WriteString(s.theme.MarkFeedback.Render(
				"accuracy " + util.IntToString(c.Accuracy) +
					" · presentation " + util.IntToString(c.Presentation) +
					" · methodology " + util.IntToString(c.Methodology) +
					" · understanding " + util.IntToString(c.Understanding)))
			b.WriteString("\n")
		}

		if q.Feedback != "" {
			b.WriteString(s.theme.MarkFeedback.Render(q.Feedback))
			b.WriteString("\n")
		}

		if len(q.Mistakes) > 0 {
			list := NewMistakeList(q.Mistakes, s.theme)
			list.MaxWidth = s.MaxWidth
			b.WriteString(list.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(s.Report.FailedPages) > 0 {
		var nums []string
		for _, p := range s.Report.FailedPages {
			nums = append(nums, util.IntToString(p))
		}
		b.WriteString(styles.RenderWarning("Pages not marked: " + strings.Join(nums, ", ")))
		b.WriteString("\n\n")
	}

	totalStyle := lipgloss.NewStyle().
		Foreground(styles.ScoreColor(s.Report.TotalMarks, s.Report.MaxMarks)).
		Bold(true)
	b.WriteString(s.theme.MarkQuestion.Render("Total: "))
	b.WriteString(totalStyle.Render(
		util.IntToString(s.Report.TotalMarks) + "/" + util.IntToString(s.Report.MaxMarks) +
			" (" + util.FloatToString(s.Report.Percentage()) + "%)"))

	return b.String()
}
