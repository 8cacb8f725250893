// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// MINDMAP EXTRACTION
// =============================================================================

var (
	// ErrNoJSONObject indicates the model output contains no {...} region.
	ErrNoJSONObject = errors.New("extract: no JSON object found in output")
	// ErrEmptyTree indicates the decoded tree has no root name.
	ErrEmptyTree = errors.New("extract: decoded mindmap tree is empty")
)

// ParseMindmap locates the first balanced {...} region in raw model output
// and decodes it as a mindmap tree. Text around the object (markdown fences,
// prose preambles) is ignored. Callers fall back to FallbackMindmap on error;
// a parse failure here never reaches the end user.
func ParseMindmap(raw string) (*model.MindmapNode, error) {
	region, ok := braceRegion(raw)
	if !ok {
		return nil, ErrNoJSONObject
	}

	var root model.MindmapNode
	if err := json.Unmarshal([]byte(region), &root); err != nil {
		return nil, err
	}
	if strings.TrimSpace(root.Name) == "" {
		return nil, ErrEmptyTree
	}
	return &root, nil
}

// braceRegion returns the first top-level balanced {...} substring, tracking
// JSON string literals so braces inside values do not miscount.
func braceRegion(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// =============================================================================
// FALLBACK TREE
// =============================================================================

// FallbackMindmap builds a deterministic tree from the markdown headings of
// the summary text, rooted at title. When the summary has no headings the
// fixed generic tree is returned, so the caller always has something to
// render.
func FallbackMindmap(summary, title string) *model.MindmapNode {
	if strings.TrimSpace(title) == "" {
		title = "Summary"
	}
	root := &model.MindmapNode{Name: title}

	var lastTop *model.MindmapNode
	for _, rawLine := range strings.Split(summary, "\n") {
		line := strings.TrimSpace(rawLine)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		level := len(line) - len(strings.TrimLeft(line, "#"))
		name := strings.TrimSpace(strings.TrimLeft(line, "# "))
		if name == "" {
			continue
		}
		if level <= 1 || lastTop == nil {
			lastTop = root.AddChild(name)
		} else {
			lastTop.AddChild(name)
		}
	}

	if len(root.Children) == 0 {
		root.AddChild("Overview")
		root.AddChild("Key Points")
		root.AddChild("Conclusion")
	}
	return root
}
