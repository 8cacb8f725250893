// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/ui/styles"
)

// =============================================================================
// MINDMAP TREE
// =============================================================================

// MindmapTree renders a topic tree with box-drawing connectors, colored by
// depth: root, branch, leaf.
type MindmapTree struct {
	theme *styles.Theme

	Root *model.MindmapNode
}

// NewMindmapTree creates a mindmap renderer.
func NewMindmapTree(root *model.MindmapNode, theme *styles.Theme) MindmapTree {
	return MindmapTree{theme: theme, Root: root}
}

// View renders the tree.
func (t MindmapTree) View() string {
	if t.Root == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(t.theme.MindmapRoot.Render(t.Root.Name))
	b.WriteString("\n")
	t.renderChildren(&b, t.Root.Children, "")
	return strings.TrimRight(b.String(), "\n")
}

func (t MindmapTree) renderChildren(b *strings.Builder, children []*model.MindmapNode, prefix string) {
	for i, child := range children {
		last := i == len(children)-1

		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		style := t.theme.MindmapBranch
		if len(child.Children) == 0 {
			style = t.theme.MindmapLeaf
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(style.Render(child.Name))
		b.WriteString("\n")

		t.renderChildren(b, child.Children, childPrefix)
	}
}

// RenderMindmapPlain renders the tree without styling, for piped output and
// markdown export.
func RenderMindmapPlain(root *model.MindmapNode) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(root.Name)
	b.WriteString("\n")
	renderPlainChildren(&b, root.Children, "")
	return strings.TrimRight(b.String(), "\n")
}

func renderPlainChildren(b *strings.Builder, children []*model.MindmapNode, prefix string) {
	for i, child := range children {
		last := i == len(children)-1

		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.Name)
		b.WriteString("\n")

		renderPlainChildren(b, child.Children, childPrefix)
	}
}
