// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// MARKING EXTRACTION
// =============================================================================

const (
	tagQuestion      = "QUESTION:"
	tagMaxMarks      = "MAX_MARKS:"
	tagAwardedMarks  = "AWARDED_MARKS:"
	tagAccuracy      = "ACCURACY:"
	tagPresentation  = "PRESENTATION:"
	tagMethodology   = "METHODOLOGY:"
	tagUnderstanding = "UNDERSTANDING:"
	tagFeedback      = "FEEDBACK:"
)

var markingSchema = TagSchema{
	Start: tagQuestion,
	Fields: []string{
		tagQuestion, tagMaxMarks, tagAwardedMarks,
		tagAccuracy, tagPresentation, tagMethodology, tagUnderstanding,
		tagFeedback,
	},
	Required: []string{tagQuestion, tagMaxMarks, tagAwardedMarks},
}

// QuestionMarks re-parses the full accumulated buffer and returns every
// complete marking record in order. A question commits once its number, max
// marks, and awarded marks are all present; criterion scores, feedback, and
// nested mistake triples are optional refinements.
func QuestionMarks(text string) []model.QuestionMark {
	var marks []model.QuestionMark

	for _, region := range splitRegions(text, tagQuestion) {
		records := ScanTagged(region, markingSchema)
		if len(records) != 1 {
			continue
		}
		rec := records[0]

		number, ok := firstInt(rec[tagQuestion])
		if !ok {
			continue
		}
		maxMarks, _ := firstInt(rec[tagMaxMarks])
		awarded, _ := firstInt(rec[tagAwardedMarks])

		mark := model.QuestionMark{
			QuestionNumber: number,
			MaxMarks:       maxMarks,
			AwardedMarks:   awarded,
			Feedback:       rec[tagFeedback],
			Mistakes:       Mistakes(region),
		}
		mark.Criteria.Accuracy, _ = firstInt(rec[tagAccuracy])
		mark.Criteria.Presentation, _ = firstInt(rec[tagPresentation])
		mark.Criteria.Methodology, _ = firstInt(rec[tagMethodology])
		mark.Criteria.Understanding, _ = firstInt(rec[tagUnderstanding])

		marks = append(marks, mark)
	}
	return marks
}

// splitRegions cuts text into per-record regions, each beginning with a line
// carrying the start tag. Text before the first start tag is dropped.
func splitRegions(text, start string) []string {
	var regions []string
	var current []string

	for _, rawLine := range strings.Split(text, "\n") {
		if strings.HasPrefix(normalizeLine(rawLine), start) {
			if current != nil {
				regions = append(regions, strings.Join(current, "\n"))
			}
			current = []string{rawLine}
			continue
		}
		if current != nil {
			current = append(current, rawLine)
		}
	}
	if current != nil {
		regions = append(regions, strings.Join(current, "\n"))
	}
	return regions
}
