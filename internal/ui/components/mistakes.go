// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// MISTAKE LIST
// =============================================================================

// MistakeList renders committed mistakes as a numbered correction list.
type MistakeList struct {
	theme *styles.Theme

	Mistakes []model.Mistake
	MaxWidth int
}

// NewMistakeList creates a mistake list renderer.
func NewMistakeList(mistakes []model.Mistake, theme *styles.Theme) MistakeList {
	return MistakeList{
		theme:    theme,
		Mistakes: mistakes,
		MaxWidth: 80,
	}
}

// View renders the list, one block per mistake. An empty list renders a
// success line instead, since no mistakes is a valid result.
func (l MistakeList) View() string {
	if len(l.Mistakes) == 0 {
		return styles.RenderSuccess("No mistakes found")
	}

	var b strings.Builder
	for i, m := range l.Mistakes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(util.IntToString(m.ID))
		b.WriteString(". ")
		b.WriteString(l.theme.MistakeIncorrect.Render(m.Incorrect))
		b.WriteString(" -> ")
		b.WriteString(l.theme.MistakeCorrect.Render(m.Correct))
		b.WriteString("  ")
		b.WriteString(l.theme.MistakeType.Render("[" + string(m.Type) + "]"))
		if m.Explanation != "" {
			b.WriteString("\n   ")
			b.WriteString(l.theme.MarkFeedback.Render(m.Explanation))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
