// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"strconv"
	"strings"
)

// =============================================================================
// TAGGED-RECORD SCANNER
// =============================================================================

// TagSchema describes one tagged-record shape: which line prefix opens a new
// record, which prefixes carry fields, and which fields must be present
// before a record may be committed.
type TagSchema struct {
	// Start is the field prefix that opens a new record, e.g. "MISTAKE:".
	Start string
	// Fields lists every recognized prefix, including Start.
	Fields []string
	// Required lists the prefixes that must all be present to commit.
	Required []string
}

// Record is one scanned tagged record, keyed by field prefix.
type Record map[string]string

// Complete reports whether every required field of the schema is present.
func (r Record) Complete(schema TagSchema) bool {
	for _, field := range schema.Required {
		if _, ok := r[field]; !ok {
			return false
		}
	}
	return true
}

// ScanTagged re-parses text from scratch and returns the complete records in
// order of appearance.
//
// A line opening a new record commits the previous in-progress record if all
// its required fields are filled. The final in-progress record is committed
// only if complete; an incomplete tail is discarded and will be re-attempted,
// whole, on the next tick. A repeated field within one record overwrites the
// earlier value. Unrecognized lines are ignored.
func ScanTagged(text string, schema TagSchema) []Record {
	var records []Record
	var current Record

	commit := func() {
		if current != nil && current.Complete(schema) {
			records = append(records, current)
		}
		current = nil
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := normalizeLine(rawLine)
		field, value, ok := matchField(line, schema.Fields)
		if !ok {
			continue
		}
		if field == schema.Start {
			commit()
			current = Record{}
		}
		if current != nil {
			current[field] = value
		}
	}
	commit()

	return records
}

// normalizeLine strips surrounding whitespace, list bullets, and markdown
// bold markers so tagged lines survive light model formatting.
func normalizeLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*• \t")
	line = strings.ReplaceAll(line, "**", "")
	return strings.TrimSpace(line)
}

// matchField matches a normalized line against the schema's field prefixes
// and returns the prefix together with the trimmed value after it.
func matchField(line string, fields []string) (string, string, bool) {
	for _, field := range fields {
		if strings.HasPrefix(line, field) {
			return field, strings.TrimSpace(line[len(field):]), true
		}
	}
	return "", "", false
}

// firstInt extracts the first decimal integer embedded in s, so values like
// "7 / 10" or "Question 3" parse without strict formatting from the model.
func firstInt(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(s[start:i])
			return n, true
		}
	}
	if start >= 0 {
		n, _ := strconv.Atoi(s[start:])
		return n, true
	}
	return 0, false
}
