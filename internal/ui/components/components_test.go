// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/study"
	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

// =============================================================================
// MINDMAP
// =============================================================================

func TestRenderMindmapPlain(t *testing.T) {
	root := &model.MindmapNode{Name: "Biology"}
	cells := root.AddChild("Cells")
	cells.AddChild("Mitochondria")
	cells.AddChild("Nucleus")
	root.AddChild("Genetics")

	out := RenderMindmapPlain(root)
	lines := strings.Split(out, "\n")

	want := []string{
		"Biology",
		"├── Cells",
		"│   ├── Mitochondria",
		"│   └── Nucleus",
		"└── Genetics",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %d, want %d\n%s", len(lines), len(want), out)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestRenderMindmapPlainNil(t *testing.T) {
	if out := RenderMindmapPlain(nil); out != "" {
		t.Errorf("nil root rendered %q", out)
	}
}

func TestMindmapTreeStyled(t *testing.T) {
	root := &model.MindmapNode{Name: "Chemistry"}
	root.AddChild("Atoms")

	tree := NewMindmapTree(root, testTheme())
	out := tree.View()

	if !strings.Contains(out, "Chemistry") {
		t.Error("root name missing")
	}
	if !strings.Contains(out, "└── ") {
		t.Error("connector missing")
	}
}

// =============================================================================
// MISTAKES
// =============================================================================

func TestMistakeListView(t *testing.T) {
	mistakes := []model.Mistake{
		{ID: 1, Incorrect: "recieve", Correct: "receive", Type: model.MistakeSpelling},
		{ID: 2, Incorrect: "me and him went", Correct: "he and I went", Type: model.MistakeGrammar, Explanation: "Subject pronouns are needed."},
	}

	list := NewMistakeList(mistakes, testTheme())
	out := list.View()

	for _, want := range []string{"recieve", "receive", "[spelling]", "[grammar]", "Subject pronouns are needed."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMistakeListEmpty(t *testing.T) {
	list := NewMistakeList(nil, testTheme())
	if out := list.View(); !strings.Contains(out, "No mistakes found") {
		t.Errorf("empty list rendered %q", out)
	}
}

// =============================================================================
// MARK SHEET
// =============================================================================

func TestMarkSheetView(t *testing.T) {
	report := &study.MarkingReport{
		Questions: []model.QuestionMark{
			{QuestionNumber: 1, MaxMarks: 10, AwardedMarks: 8, Feedback: "Good working shown."},
			{QuestionNumber: 2, MaxMarks: 5, AwardedMarks: 5},
		},
		TotalMarks:  13,
		MaxMarks:    15,
		FailedPages: []int{3},
	}

	sheet := NewMarkSheet(report, testTheme())
	out := sheet.View()

	for _, want := range []string{"Question 1", "8/10", "Question 2", "5/5", "Good working shown.", "Total: ", "13/15", "Pages not marked: 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestMarkSheetNilReport(t *testing.T) {
	sheet := NewMarkSheet(nil, testTheme())
	if out := sheet.View(); out != "" {
		t.Errorf("nil report rendered %q", out)
	}
}

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

func TestMessageBubbleRoles(t *testing.T) {
	theme := testTheme()

	user := NewMessageBubble(model.NewUserMessage("What is osmosis?"), theme)
	if out := user.View(); !strings.Contains(out, "What is osmosis?") {
		t.Error("user content missing")
	}

	tutor := NewMessageBubble(model.NewMessage(model.RoleAssistant, "Osmosis is diffusion of water."), theme)
	if out := tutor.View(); !strings.Contains(out, "Osmosis is diffusion of water.") {
		t.Error("tutor content missing")
	}
}

func TestRenderTranscript(t *testing.T) {
	sess := model.NewChatSession("Revision")
	sess.AddMessage(model.NewUserMessage("First question"))
	sess.AddMessage(model.NewMessage(model.RoleAssistant, "First answer"))

	out := RenderTranscript(sess, testTheme(), 80)
	if !strings.Contains(out, "First question") || !strings.Contains(out, "First answer") {
		t.Errorf("transcript missing content:\n%s", out)
	}

	if out := RenderTranscript(nil, testTheme(), 80); out != "" {
		t.Errorf("nil session rendered %q", out)
	}
}

// =============================================================================
// CODE
// =============================================================================

func TestParseInlineCode(t *testing.T) {
	out := ParseInlineCode("use `fmt.Println` here")
	if !strings.Contains(out, "fmt.Println") {
		t.Error("inline code content missing")
	}
	if strings.Contains(out, "`") {
		t.Error("backticks should be stripped")
	}
}

func TestParseCodeBlocksKeepsProse(t *testing.T) {
	text := "Before\n```go\nfmt.Println(1)\n```\nAfter"
	out := ParseCodeBlocks(text, 80)

	for _, want := range []string{"Before", "fmt.Println", "After"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestParseCodeBlocksUnclosedFence(t *testing.T) {
	// Streaming delivers fences incrementally; a half-open block still renders.
	text := "Look:\n```python\nprint(1)"
	out := ParseCodeBlocks(text, 80)
	if !strings.Contains(out, "print(1)") {
		t.Errorf("unclosed fence content missing:\n%s", out)
	}
}
