// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// MISTAKE EXTRACTION
// =============================================================================

const (
	tagMistake     = "MISTAKE:"
	tagCorrection  = "CORRECTION:"
	tagType        = "TYPE:"
	tagExplanation = "EXPLANATION:"

	sectionExtractedText = "EXTRACTED_TEXT:"
	sectionMistakes      = "MISTAKES:"
)

var mistakeSchema = TagSchema{
	Start:    tagMistake,
	Fields:   []string{tagMistake, tagCorrection, tagType, tagExplanation},
	Required: []string{tagMistake, tagCorrection, tagType},
}

// Mistakes re-parses the full accumulated buffer and returns every complete
// mistake triple, IDs assigned 1-based in order of appearance. An in-progress
// mistake missing any of its three required fields is withheld.
func Mistakes(text string) []model.Mistake {
	records := ScanTagged(text, mistakeSchema)

	mistakes := make([]model.Mistake, 0, len(records))
	for i, rec := range records {
		mistakes = append(mistakes, model.Mistake{
			ID:          i + 1,
			Incorrect:   rec[tagMistake],
			Correct:     rec[tagCorrection],
			Type:        model.NormalizeMistakeType(rec[tagType]),
			Explanation: rec[tagExplanation],
		})
	}
	return mistakes
}

// =============================================================================
// COMBINED EXTRACTED_TEXT / MISTAKES VARIANT
// =============================================================================

// TextAndMistakes slices the buffer into its EXTRACTED_TEXT and MISTAKES
// sections and scans the latter for mistake records. The two sections are
// located independently, so a response carrying only one of them still
// yields that one.
func TextAndMistakes(text string) (string, []model.Mistake) {
	extracted := sliceSection(text, sectionExtractedText, sectionMistakes)
	mistakes := Mistakes(sliceSection(text, sectionMistakes, sectionExtractedText))
	return extracted, mistakes
}

// sliceSection returns the region after the first occurrence of header, up
// to the next occurrence of any stop header or end of string. Empty string
// when the header is absent.
func sliceSection(text, header string, stops ...string) string {
	start := strings.Index(text, header)
	if start < 0 {
		return ""
	}
	region := text[start+len(header):]

	end := len(region)
	for _, stop := range stops {
		if i := strings.Index(region, stop); i >= 0 && i < end {
			end = i
		}
	}
	return strings.TrimSpace(region[:end])
}
