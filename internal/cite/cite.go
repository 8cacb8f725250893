// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cite

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/studyhall-tui/internal/extract"
)

// =============================================================================
// CITATION RECORD
// =============================================================================

// Citation is one reference with the fields the formatters consume.
type Citation struct {
	Authors []string `json:"authors"`
	Year    string   `json:"year"`
	Title   string   `json:"title"`
	Source  string   `json:"source,omitempty"` // journal, publisher, or site
	URL     string   `json:"url,omitempty"`
}

// Style identifies a reference style.
type Style string

const (
	StyleAPA     Style = "apa"
	StyleMLA     Style = "mla"
	StyleHarvard Style = "harvard"
	StyleChicago Style = "chicago"
)

// ErrUnknownStyle indicates an unsupported style name.
var ErrUnknownStyle = errors.New("cite: unknown citation style")

// Styles lists the supported styles in display order.
func Styles() []Style {
	return []Style{StyleAPA, StyleMLA, StyleHarvard, StyleChicago}
}

// ParseStyle maps a user-supplied style name to a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleAPA:
		return StyleAPA, nil
	case StyleMLA:
		return StyleMLA, nil
	case StyleHarvard:
		return StyleHarvard, nil
	case StyleChicago:
		return StyleChicago, nil
	default:
		return "", ErrUnknownStyle
	}
}

// =============================================================================
// FORMATTING
// =============================================================================

var titleCaser = cases.Title(language.English)

// Format renders the citation in the given style. Author, year, and title
// appear verbatim in the output.
func Format(c Citation, style Style) (string, error) {
	switch style {
	case StyleAPA:
		return formatAPA(c), nil
	case StyleMLA:
		return formatMLA(c), nil
	case StyleHarvard:
		return formatHarvard(c), nil
	case StyleChicago:
		return formatChicago(c), nil
	default:
		return "", ErrUnknownStyle
	}
}

func formatAPA(c Citation) string {
	var sb strings.Builder
	sb.WriteString(joinAuthors(c.Authors, " & "))
	sb.WriteString(" (" + orUnknown(c.Year, "n.d.") + "). ")
	sb.WriteString(c.Title + ".")
	if c.Source != "" {
		sb.WriteString(" " + container(c.Source) + ".")
	}
	if c.URL != "" {
		sb.WriteString(" " + c.URL)
	}
	return sb.String()
}

func formatMLA(c Citation) string {
	var sb strings.Builder
	sb.WriteString(joinAuthors(c.Authors, ", and "))
	sb.WriteString(`. "` + c.Title + `." `)
	if c.Source != "" {
		sb.WriteString(container(c.Source) + ", ")
	}
	sb.WriteString(orUnknown(c.Year, "n.d.") + ".")
	if c.URL != "" {
		sb.WriteString(" " + c.URL + ".")
	}
	return sb.String()
}

func formatHarvard(c Citation) string {
	var sb strings.Builder
	sb.WriteString(joinAuthors(c.Authors, " and "))
	sb.WriteString(" (" + orUnknown(c.Year, "no date") + ") ")
	sb.WriteString(c.Title + ".")
	if c.Source != "" {
		sb.WriteString(" " + container(c.Source) + ".")
	}
	if c.URL != "" {
		sb.WriteString(" Available at: " + c.URL)
	}
	return sb.String()
}

func formatChicago(c Citation) string {
	var sb strings.Builder
	sb.WriteString(joinAuthors(c.Authors, ", and "))
	sb.WriteString(". " + orUnknown(c.Year, "n.d.") + ". ")
	sb.WriteString(`"` + c.Title + `."`)
	if c.Source != "" {
		sb.WriteString(" " + container(c.Source) + ".")
	}
	if c.URL != "" {
		sb.WriteString(" " + c.URL + ".")
	}
	return sb.String()
}

func joinAuthors(authors []string, sep string) string {
	if len(authors) == 0 {
		return "Unknown"
	}
	return strings.Join(authors, sep)
}

func orUnknown(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// container title-cases a journal, publisher, or site name.
func container(s string) string {
	return titleCaser.String(s)
}

// =============================================================================
// PARSING MODEL OUTPUT
// =============================================================================

const (
	tagAuthor = "AUTHOR:"
	tagYear   = "YEAR:"
	tagTitle  = "TITLE:"
	tagSource = "SOURCE:"
	tagURL    = "URL:"
)

var citationSchema = extract.TagSchema{
	Start:    tagAuthor,
	Fields:   []string{tagAuthor, tagYear, tagTitle, tagSource, tagURL},
	Required: []string{tagAuthor, tagTitle},
}

// ParseCitations scans tagged citation records out of model output. Authors
// are split on semicolons so multi-author lines stay a single field.
func ParseCitations(text string) []Citation {
	records := extract.ScanTagged(text, citationSchema)

	citations := make([]Citation, 0, len(records))
	for _, rec := range records {
		var authors []string
		for _, a := range strings.Split(rec[tagAuthor], ";") {
			if a = strings.TrimSpace(a); a != "" {
				authors = append(authors, a)
			}
		}
		citations = append(citations, Citation{
			Authors: authors,
			Year:    rec[tagYear],
			Title:   rec[tagTitle],
			Source:  rec[tagSource],
			URL:     rec[tagURL],
		})
	}
	return citations
}
