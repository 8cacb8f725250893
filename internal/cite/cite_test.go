// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cite

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatRoundTripAllStyles(t *testing.T) {
	c := Citation{
		Authors: []string{"Smith, J.", "Doe, A."},
		Year:    "2021",
		Title:   "The effects of spaced repetition on recall",
		Source:  "journal of educational psychology",
		URL:     "https://example.org/spaced-repetition",
	}

	for _, style := range Styles() {
		out, err := Format(c, style)
		if err != nil {
			t.Fatalf("Format(%s): %v", style, err)
		}
		// Author, year, and title must survive formatting verbatim.
		for _, field := range []string{"Smith, J.", "Doe, A.", "2021", c.Title} {
			if !strings.Contains(out, field) {
				t.Errorf("%s output missing %q: %s", style, field, out)
			}
		}
	}
}

func TestFormatMissingYear(t *testing.T) {
	c := Citation{Authors: []string{"Lee, K."}, Title: "Untitled notes"}

	apa, err := Format(c, StyleAPA)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(apa, "n.d.") {
		t.Errorf("APA output missing n.d. placeholder: %s", apa)
	}

	harvard, err := Format(c, StyleHarvard)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(harvard, "no date") {
		t.Errorf("Harvard output missing no date placeholder: %s", harvard)
	}
}

func TestFormatUnknownStyle(t *testing.T) {
	if _, err := Format(Citation{Title: "x"}, Style("ieee")); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("err = %v, want ErrUnknownStyle", err)
	}
}

func TestParseStyle(t *testing.T) {
	got, err := ParseStyle("  MLA ")
	if err != nil || got != StyleMLA {
		t.Errorf("ParseStyle = %v, %v", got, err)
	}
	if _, err := ParseStyle("vancouver"); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("err = %v, want ErrUnknownStyle", err)
	}
}

func TestParseCitations(t *testing.T) {
	text := `AUTHOR: Curie, M.; Joliot, F.
YEAR: 1935
TITLE: Artificial production of radioactive elements
SOURCE: Nature
URL: https://example.org/curie
AUTHOR: Darwin, C.
YEAR: 1859
TITLE: On the Origin of Species
`

	citations := ParseCitations(text)
	if len(citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(citations))
	}

	first := citations[0]
	if len(first.Authors) != 2 || first.Authors[0] != "Curie, M." || first.Authors[1] != "Joliot, F." {
		t.Errorf("authors = %v", first.Authors)
	}
	if first.Year != "1935" || first.Source != "Nature" || first.URL != "https://example.org/curie" {
		t.Errorf("first = %+v", first)
	}
	if citations[1].Title != "On the Origin of Species" {
		t.Errorf("second title = %q", citations[1].Title)
	}
}

func TestParseCitationsWithholdsIncomplete(t *testing.T) {
	citations := ParseCitations("AUTHOR: Nobody\nYEAR: 2020\n")
	if len(citations) != 0 {
		t.Errorf("incomplete citation leaked: %+v", citations)
	}
}
