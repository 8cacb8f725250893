// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"errors"
	"testing"
)

func TestParseMindmapPlainJSON(t *testing.T) {
	raw := `{"name":"Photosynthesis","children":[{"name":"Light Reactions"},{"name":"Calvin Cycle","children":[{"name":"Carbon Fixation"}]}]}`

	root, err := ParseMindmap(raw)
	if err != nil {
		t.Fatalf("ParseMindmap: %v", err)
	}
	if root.Name != "Photosynthesis" {
		t.Errorf("root name = %q", root.Name)
	}
	if root.CountNodes() != 4 {
		t.Errorf("node count = %d, want 4", root.CountNodes())
	}
}

func TestParseMindmapIgnoresSurroundingProse(t *testing.T) {
	raw := "Here is your mindmap:\n```json\n{\"name\":\"Topic\",\"children\":[{\"name\":\"A\"}]}\n```\nLet me know if you need changes."

	root, err := ParseMindmap(raw)
	if err != nil {
		t.Fatalf("ParseMindmap: %v", err)
	}
	if root.Name != "Topic" || len(root.Children) != 1 {
		t.Errorf("root = %+v", root)
	}
}

func TestParseMindmapBracesInsideStrings(t *testing.T) {
	raw := `{"name":"Sets {a, b}","children":[{"name":"Notation \"{}\""}]}`

	root, err := ParseMindmap(raw)
	if err != nil {
		t.Fatalf("ParseMindmap: %v", err)
	}
	if root.Name != "Sets {a, b}" {
		t.Errorf("root name = %q", root.Name)
	}
}

func TestParseMindmapNoObject(t *testing.T) {
	_, err := ParseMindmap("sorry, I cannot produce a mindmap for that")
	if !errors.Is(err, ErrNoJSONObject) {
		t.Errorf("err = %v, want ErrNoJSONObject", err)
	}
}

func TestParseMindmapUnbalancedObject(t *testing.T) {
	if _, err := ParseMindmap(`{"name":"truncated","children":[`); err == nil {
		t.Error("expected error for unbalanced object")
	}
}

func TestParseMindmapEmptyName(t *testing.T) {
	_, err := ParseMindmap(`{"children":[{"name":"orphan"}]}`)
	if !errors.Is(err, ErrEmptyTree) {
		t.Errorf("err = %v, want ErrEmptyTree", err)
	}
}

func TestFallbackMindmapFromHeadings(t *testing.T) {
	summary := "# The Cell\nintro text\n## Organelles\n## Membrane\n# Division\n## Mitosis\n"

	root := FallbackMindmap(summary, "Biology Notes")
	if root.Name != "Biology Notes" {
		t.Errorf("root name = %q", root.Name)
	}
	if len(root.Children) != 2 {
		t.Fatalf("top-level children = %d, want 2", len(root.Children))
	}
	if root.Children[0].Name != "The Cell" || len(root.Children[0].Children) != 2 {
		t.Errorf("first branch = %+v", root.Children[0])
	}
	if root.Children[1].Name != "Division" || len(root.Children[1].Children) != 1 {
		t.Errorf("second branch = %+v", root.Children[1])
	}
}

func TestFallbackMindmapGenericTree(t *testing.T) {
	root := FallbackMindmap("no headings here, just prose", "")
	if root.Name != "Summary" {
		t.Errorf("root name = %q", root.Name)
	}
	if len(root.Children) == 0 {
		t.Fatal("generic tree has no children; nothing to render")
	}
}
