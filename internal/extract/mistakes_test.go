// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"strings"
	"testing"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

func TestMistakesTwoCompleteRecords(t *testing.T) {
	input := "MISTAKE: teh cat\nCORRECTION: the cat\nTYPE: spelling\nMISTAKE: he go\nCORRECTION: he goes\nTYPE: grammar\n"

	got := Mistakes(input)
	if len(got) != 2 {
		t.Fatalf("got %d mistakes, want 2", len(got))
	}

	want := []model.Mistake{
		{ID: 1, Incorrect: "teh cat", Correct: "the cat", Type: model.MistakeSpelling},
		{ID: 2, Incorrect: "he go", Correct: "he goes", Type: model.MistakeGrammar},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mistake[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestMistakesWithholdsIncompleteTail(t *testing.T) {
	input := "MISTAKE: foo\nCORRECTION: bar\n"
	if got := Mistakes(input); len(got) != 0 {
		t.Errorf("incomplete record leaked: %+v", got)
	}
}

func TestMistakesMonotonicRefinement(t *testing.T) {
	// Grow the buffer one line at a time; records committed at step n must
	// appear unchanged at step n+1, with only new records appended.
	full := "MISTAKE: a\nCORRECTION: b\nTYPE: spelling\nMISTAKE: c\nCORRECTION: d\nTYPE: grammar\nMISTAKE: e\nCORRECTION: f\nTYPE: punctuation\n"
	lines := strings.SplitAfter(full, "\n")

	var buf strings.Builder
	var prev []model.Mistake
	for step, line := range lines {
		buf.WriteString(line)
		got := Mistakes(buf.String())
		if len(got) < len(prev) {
			t.Fatalf("at step %d: committed records retracted (%d -> %d)", step, len(prev), len(got))
		}
		for j := range prev {
			if got[j] != prev[j] {
				t.Fatalf("at step %d: record %d changed from %+v to %+v", step, j, prev[j], got[j])
			}
		}
		prev = got
	}
	if len(prev) != 3 {
		t.Errorf("final record count = %d, want 3", len(prev))
	}
}

func TestMistakesExplanationOptional(t *testing.T) {
	input := "MISTAKE: its raining\nCORRECTION: it's raining\nTYPE: punctuation\nEXPLANATION: missing apostrophe\n"
	got := Mistakes(input)
	if len(got) != 1 {
		t.Fatalf("got %d mistakes, want 1", len(got))
	}
	if got[0].Explanation != "missing apostrophe" {
		t.Errorf("explanation = %q", got[0].Explanation)
	}
}

func TestMistakesUnknownTypeNormalized(t *testing.T) {
	input := "MISTAKE: x\nCORRECTION: y\nTYPE: syntax-error\n"
	got := Mistakes(input)
	if len(got) != 1 || got[0].Type != model.MistakeOther {
		t.Errorf("got %+v, want single mistake of type other", got)
	}
}

func TestMistakesTolerateBulletsAndBold(t *testing.T) {
	input := "- **MISTAKE:** teh\n- **CORRECTION:** the\n- **TYPE:** spelling\n"
	got := Mistakes(input)
	if len(got) != 1 {
		t.Fatalf("got %d mistakes, want 1", len(got))
	}
	if got[0].Incorrect != "teh" || got[0].Correct != "the" {
		t.Errorf("mistake = %+v", got[0])
	}
}

func TestMistakesIgnoresProseBetweenRecords(t *testing.T) {
	input := "Here are the mistakes I found:\n\nMISTAKE: a\nsome commentary\nCORRECTION: b\nTYPE: grammar\n\nThat is all.\n"
	got := Mistakes(input)
	if len(got) != 1 {
		t.Fatalf("got %d mistakes, want 1", len(got))
	}
}

func TestTextAndMistakesSlicesBothSections(t *testing.T) {
	input := "EXTRACTED_TEXT:\nThe quick brown focks jumps.\n\nMISTAKES:\nMISTAKE: focks\nCORRECTION: fox\nTYPE: spelling\n"

	text, mistakes := TextAndMistakes(input)
	if text != "The quick brown focks jumps." {
		t.Errorf("extracted text = %q", text)
	}
	if len(mistakes) != 1 || mistakes[0].Incorrect != "focks" {
		t.Errorf("mistakes = %+v", mistakes)
	}
}

func TestTextAndMistakesSectionsIndependent(t *testing.T) {
	text, mistakes := TextAndMistakes("EXTRACTED_TEXT:\nonly text here\n")
	if text != "only text here" {
		t.Errorf("extracted text = %q", text)
	}
	if len(mistakes) != 0 {
		t.Errorf("mistakes = %+v, want none", mistakes)
	}

	text, mistakes = TextAndMistakes("MISTAKES:\nMISTAKE: a\nCORRECTION: b\nTYPE: other\n")
	if text != "" {
		t.Errorf("extracted text = %q, want empty", text)
	}
	if len(mistakes) != 1 {
		t.Errorf("mistakes = %+v, want one", mistakes)
	}
}
