// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the studyhall TUI.

This package defines the complete color palette and themed Lip Gloss styles
used throughout the application. All colors use Lip Gloss AdaptiveColor for
automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Indigo - Primary accent for tutor messages and selections
  - Sky - Brand color for info, commands, and user highlights
  - Emerald - Success states, full marks, completed pages
  - Amber - Warnings and partial marks
  - Rose - Errors, failed pages, lost marks

## Semantic Colors

Message bubbles, marking output, and mindmap trees use semantic color tokens:

	UserBubbleBg     - Background for user messages
	TutorBubbleBg    - Background for tutor messages
	MistakeIncorrect - Struck-through incorrect text
	MistakeCorrect   - Corrected replacement text
	ScoreFull        - High score band (>= 80%)

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}

SetSize and GetLayoutMode drive responsive layouts between narrow, medium,
and wide terminals.

# Usage Example

	import "github.com/jeranaias/studyhall-tui/internal/ui/styles"

	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)

	theme := styles.NewTheme()
	out := theme.TutorBubble.Render(answer)
*/
package styles
