// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// =============================================================================
// MISTAKE TYPE
// =============================================================================

// MistakeType classifies a detected writing mistake.
type MistakeType string

const (
	MistakeGrammar     MistakeType = "grammar"
	MistakeSpelling    MistakeType = "spelling"
	MistakePunctuation MistakeType = "punctuation"
	MistakeOther       MistakeType = "other"
)

// NormalizeMistakeType maps arbitrary model output to a known mistake type.
// Unrecognized values become MistakeOther.
func NormalizeMistakeType(s string) MistakeType {
	switch MistakeType(strings.ToLower(strings.TrimSpace(s))) {
	case MistakeGrammar:
		return MistakeGrammar
	case MistakeSpelling:
		return MistakeSpelling
	case MistakePunctuation:
		return MistakePunctuation
	default:
		return MistakeOther
	}
}

// Mistake is one detected mistake with its correction. IDs are session-local,
// 1-based, and assigned at parse time.
type Mistake struct {
	ID          int         `json:"id"`
	Incorrect   string      `json:"incorrect"`
	Correct     string      `json:"correct"`
	Type        MistakeType `json:"type"`
	Explanation string      `json:"explanation,omitempty"`
}

// =============================================================================
// MARKING RESULT
// =============================================================================

// CriteriaScores holds the per-criterion marks for one question.
type CriteriaScores struct {
	Accuracy      int `json:"accuracy"`
	Presentation  int `json:"presentation"`
	Methodology   int `json:"methodology"`
	Understanding int `json:"understanding"`
}

// QuestionMark is the marking result for one question of a submission.
type QuestionMark struct {
	QuestionNumber int            `json:"question_number"`
	MaxMarks       int            `json:"max_marks"`
	AwardedMarks   int            `json:"awarded_marks"`
	Criteria       CriteriaScores `json:"criteria"`
	Mistakes       []Mistake      `json:"mistakes,omitempty"`
	Feedback       string         `json:"feedback,omitempty"`
}

// =============================================================================
// PAGE RESULT
// =============================================================================

// PageResult is the per-page outcome of a multi-page document run.
//
// Lifecycle: created loading; Content updated on every accumulation tick;
// exactly one of Complete (success) or Error (failure) terminates it.
type PageResult struct {
	PageNumber int    `json:"page_number"` // 1-based
	Content    string `json:"content"`
	IsLoading  bool   `json:"is_loading"`
	IsComplete bool   `json:"is_complete"`
	Error      string `json:"error,omitempty"`
}

// NewPageResult creates a page result in its initial loading state.
func NewPageResult(pageNumber int) *PageResult {
	return &PageResult{
		PageNumber: pageNumber,
		IsLoading:  true,
	}
}

// MarkComplete transitions the page to its successful terminal state.
// No-op if the page already terminated.
func (p *PageResult) MarkComplete(content string) {
	if p.IsTerminal() {
		return
	}
	p.Content = content
	p.IsComplete = true
	p.IsLoading = false
}

// MarkFailed transitions the page to its failed terminal state.
// No-op if the page already terminated.
func (p *PageResult) MarkFailed(errMsg string) {
	if p.IsTerminal() {
		return
	}
	p.Error = errMsg
	p.IsLoading = false
}

// IsTerminal returns true once the page has completed or failed.
func (p *PageResult) IsTerminal() bool {
	return p.IsComplete || p.Error != ""
}

// =============================================================================
// MINDMAP NODE
// =============================================================================

// MindmapNode is one node of a hierarchical summary tree.
type MindmapNode struct {
	Name     string         `json:"name"`
	Children []*MindmapNode `json:"children,omitempty"`
}

// AddChild appends a child node and returns it.
func (n *MindmapNode) AddChild(name string) *MindmapNode {
	child := &MindmapNode{Name: name}
	n.Children = append(n.Children, child)
	return child
}

// CountNodes returns the total number of nodes in the tree, including n.
func (n *MindmapNode) CountNodes() int {
	count := 1
	for _, c := range n.Children {
		count += c.CountNodes()
	}
	return count
}
