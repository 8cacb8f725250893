// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"strings"
	"testing"
)

const markingSample = `QUESTION: 1
MAX_MARKS: 10
AWARDED_MARKS: 7
ACCURACY: 8
PRESENTATION: 6
METHODOLOGY: 7
UNDERSTANDING: 7
MISTAKE: 2 + 2 = 5
CORRECTION: 2 + 2 = 4
TYPE: other
FEEDBACK: Solid method, arithmetic slip in part b.
QUESTION: 2
MAX_MARKS: 5
AWARDED_MARKS: 5
FEEDBACK: Perfect.
`

func TestQuestionMarksFullParse(t *testing.T) {
	marks := QuestionMarks(markingSample)
	if len(marks) != 2 {
		t.Fatalf("got %d questions, want 2", len(marks))
	}

	q1 := marks[0]
	if q1.QuestionNumber != 1 || q1.MaxMarks != 10 || q1.AwardedMarks != 7 {
		t.Errorf("q1 marks = %+v", q1)
	}
	if q1.Criteria.Accuracy != 8 || q1.Criteria.Presentation != 6 ||
		q1.Criteria.Methodology != 7 || q1.Criteria.Understanding != 7 {
		t.Errorf("q1 criteria = %+v", q1.Criteria)
	}
	if len(q1.Mistakes) != 1 || q1.Mistakes[0].Incorrect != "2 + 2 = 5" {
		t.Errorf("q1 mistakes = %+v", q1.Mistakes)
	}
	if q1.Feedback != "Solid method, arithmetic slip in part b." {
		t.Errorf("q1 feedback = %q", q1.Feedback)
	}

	q2 := marks[1]
	if q2.QuestionNumber != 2 || q2.MaxMarks != 5 || q2.AwardedMarks != 5 {
		t.Errorf("q2 marks = %+v", q2)
	}
	if len(q2.Mistakes) != 0 {
		t.Errorf("q2 mistakes = %+v, want none", q2.Mistakes)
	}
}

func TestQuestionMarksWithholdsIncompleteTail(t *testing.T) {
	input := "QUESTION: 1\nMAX_MARKS: 10\nAWARDED_MARKS: 8\nQUESTION: 2\nMAX_MARKS: 5\n"
	marks := QuestionMarks(input)
	if len(marks) != 1 {
		t.Fatalf("got %d questions, want 1 (tail lacks AWARDED_MARKS)", len(marks))
	}
	if marks[0].QuestionNumber != 1 {
		t.Errorf("question = %d, want 1", marks[0].QuestionNumber)
	}
}

func TestQuestionMarksLooseNumberFormats(t *testing.T) {
	input := "QUESTION: Question 3\nMAX_MARKS: 10 marks\nAWARDED_MARKS: 7/10\n"
	marks := QuestionMarks(input)
	if len(marks) != 1 {
		t.Fatalf("got %d questions, want 1", len(marks))
	}
	q := marks[0]
	if q.QuestionNumber != 3 || q.MaxMarks != 10 || q.AwardedMarks != 7 {
		t.Errorf("parsed = %+v", q)
	}
}

func TestQuestionMarksMonotonicRefinement(t *testing.T) {
	var buf strings.Builder
	var prevCount int
	for step, line := range strings.SplitAfter(markingSample, "\n") {
		buf.WriteString(line)
		marks := QuestionMarks(buf.String())
		if len(marks) < prevCount {
			t.Fatalf("at step %d: committed questions retracted (%d -> %d)", step, prevCount, len(marks))
		}
		prevCount = len(marks)
	}
	if prevCount != 2 {
		t.Errorf("final question count = %d, want 2", prevCount)
	}
}

func TestQuestionMarksEmptyInput(t *testing.T) {
	if marks := QuestionMarks(""); len(marks) != 0 {
		t.Errorf("marks from empty input: %+v", marks)
	}
	if marks := QuestionMarks("no tags at all\njust prose\n"); len(marks) != 0 {
		t.Errorf("marks from prose: %+v", marks)
	}
}
