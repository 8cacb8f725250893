// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"long message truncated", "explain the theory of general relativity", "explain the theory of..."},
		{"exactly four words", "what is an atom", "what is an atom"},
		{"short message", "help me", "help me"},
		{"whitespace collapsed", "  why   is\nthe sky blue today", "why is the sky..."},
		{"empty falls back", "   ", DefaultSessionTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.content); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestSessionTitleDerivedOnce(t *testing.T) {
	s := NewChatSession("")
	if s.Title != DefaultSessionTitle {
		t.Fatalf("new session title = %q", s.Title)
	}

	s.AddMessage(NewUserMessage("how do enzymes catalyze chemical reactions"))
	if s.Title != "how do enzymes catalyze..." {
		t.Errorf("title after first message = %q", s.Title)
	}

	// A second user message never re-derives the title.
	s.AddMessage(NewUserMessage("completely different question about history"))
	if s.Title != "how do enzymes catalyze..." {
		t.Errorf("title re-derived: %q", s.Title)
	}
}

func TestSessionTitleNotDerivedFromAssistant(t *testing.T) {
	s := NewChatSession("")
	asst := NewAssistantMessage()
	asst.FinalizeStream()
	s.AddMessage(asst)
	if s.Title != DefaultSessionTitle {
		t.Errorf("assistant message derived title: %q", s.Title)
	}
}

func TestMessageStreaming(t *testing.T) {
	msg := NewAssistantMessage()
	if !msg.IsStreaming {
		t.Fatal("new assistant message should be streaming")
	}

	msg.AppendToken("Photosynthesis ")
	msg.AppendToken("converts light")
	if got := msg.GetDisplayContent(); got != "Photosynthesis converts light" {
		t.Errorf("display content during streaming = %q", got)
	}

	msg.FinalizeStream()
	if msg.IsStreaming {
		t.Error("message still streaming after finalize")
	}
	if msg.Content != "Photosynthesis converts light" {
		t.Errorf("final content = %q", msg.Content)
	}

	// Tokens after finalization are dropped.
	msg.AppendToken(" trailing")
	if msg.Content != "Photosynthesis converts light" {
		t.Errorf("content mutated after finalize: %q", msg.Content)
	}
}

func TestMessageEditPreservesOriginalOnce(t *testing.T) {
	msg := NewUserMessage("teh original")
	msg.Edit("the original")
	if !msg.Edited {
		t.Error("Edited not set")
	}
	if msg.OriginalContent != "teh original" {
		t.Errorf("OriginalContent = %q", msg.OriginalContent)
	}

	// Second edit keeps the first original.
	msg.Edit("the original text")
	if msg.OriginalContent != "teh original" {
		t.Errorf("OriginalContent after second edit = %q", msg.OriginalContent)
	}
	if msg.Content != "the original text" {
		t.Errorf("Content = %q", msg.Content)
	}
}

func TestMessageEditIgnoresAssistant(t *testing.T) {
	msg := NewAssistantMessage()
	msg.FinalizeStream()
	msg.Edit("tampered")
	if msg.Content == "tampered" {
		t.Error("assistant message was edited")
	}
}

func TestLikeDislikeExclusive(t *testing.T) {
	msg := NewAssistantMessage()
	msg.SetLiked()
	msg.SetDisliked()
	if msg.Liked {
		t.Error("liked should be cleared by dislike")
	}
	if !msg.Disliked {
		t.Error("disliked not set")
	}
}

func TestSessionClone(t *testing.T) {
	s := NewChatSession("")
	s.AddMessage(NewUserMessage("original"))

	clone := s.Clone()
	clone.Messages[0].Content = "mutated"
	clone.AddMessage(NewUserMessage("extra"))

	if s.Messages[0].Content != "original" {
		t.Error("clone mutation leaked into original message")
	}
	if len(s.Messages) != 1 {
		t.Error("clone append leaked into original session")
	}
}

func TestPageResultLifecycle(t *testing.T) {
	p := NewPageResult(2)
	if !p.IsLoading || p.IsComplete || p.Error != "" {
		t.Fatalf("bad initial state: %+v", p)
	}

	p.MarkComplete("summary text")
	if p.IsLoading || !p.IsComplete {
		t.Errorf("bad complete state: %+v", p)
	}

	// Terminal states are mutually exclusive; a late failure is ignored.
	p.MarkFailed("too late")
	if p.Error != "" {
		t.Errorf("completed page accepted an error: %+v", p)
	}
}

func TestPageResultFailureTerminal(t *testing.T) {
	p := NewPageResult(1)
	p.MarkFailed("HTTP 500")
	if p.IsLoading || p.IsComplete || p.Error != "HTTP 500" {
		t.Fatalf("bad failed state: %+v", p)
	}
	p.MarkComplete("late content")
	if p.IsComplete {
		t.Error("failed page transitioned to complete")
	}
}

func TestNormalizeMistakeType(t *testing.T) {
	tests := []struct {
		in   string
		want MistakeType
	}{
		{"spelling", MistakeSpelling},
		{" Grammar ", MistakeGrammar},
		{"PUNCTUATION", MistakePunctuation},
		{"word choice", MistakeOther},
		{"", MistakeOther},
	}
	for _, tt := range tests {
		if got := NormalizeMistakeType(tt.in); got != tt.want {
			t.Errorf("NormalizeMistakeType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMindmapNode(t *testing.T) {
	root := &MindmapNode{Name: "Biology"}
	cells := root.AddChild("Cells")
	cells.AddChild("Organelles")
	root.AddChild("Genetics")

	if root.CountNodes() != 4 {
		t.Errorf("CountNodes = %d, want 4", root.CountNodes())
	}
}

func TestGenerateMessageIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateMessageID()
		if seen[id] {
			t.Fatalf("duplicate message ID %q", id)
		}
		if strings.TrimSpace(id) == "" {
			t.Fatal("empty message ID")
		}
		seen[id] = true
	}
}
