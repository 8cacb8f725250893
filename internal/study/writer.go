// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package study

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/provider"
	"github.com/jeranaias/studyhall-tui/internal/stream"
)

// =============================================================================
// CONTENT WRITER
// =============================================================================

// ContentKind selects the shape of generated study material.
type ContentKind string

const (
	ContentEssay      ContentKind = "essay"
	ContentOutline    ContentKind = "outline"
	ContentFlashcards ContentKind = "flashcards"
	ContentNotes      ContentKind = "notes"
)

// ErrUnknownContentKind indicates an unsupported content kind.
var ErrUnknownContentKind = errors.New("study: unknown content kind")

// ContentKinds lists the supported kinds in display order.
func ContentKinds() []ContentKind {
	return []ContentKind{ContentEssay, ContentOutline, ContentFlashcards, ContentNotes}
}

// ParseContentKind maps a user-supplied kind name to a ContentKind.
func ParseContentKind(s string) (ContentKind, error) {
	switch ContentKind(strings.ToLower(strings.TrimSpace(s))) {
	case ContentEssay:
		return ContentEssay, nil
	case ContentOutline:
		return ContentOutline, nil
	case ContentFlashcards:
		return ContentFlashcards, nil
	case ContentNotes:
		return ContentNotes, nil
	default:
		return "", ErrUnknownContentKind
	}
}

// Writer generates study material on a topic.
type Writer struct {
	client Completer
}

// NewWriter creates a content writer.
func NewWriter(client Completer) *Writer {
	return &Writer{client: client}
}

// Write streams generated material of the given kind, republishing the full
// accumulated text through onTick.
func (w *Writer) Write(ctx context.Context, topic string, kind ContentKind, onTick func(partial string)) (string, error) {
	prompt := fmt.Sprintf("Write %s about: %s", kindPhrase(kind), topic)

	acc := stream.NewAccumulator(onTick)
	err := w.client.ChatStream(ctx, []provider.ChatMessage{
		provider.NewSystemMessage(writerSystemPrompt),
		provider.NewUserMessage(prompt),
	}, acc.ApplyFrame)
	return acc.Text(), err
}

func kindPhrase(kind ContentKind) string {
	switch kind {
	case ContentOutline:
		return "a structured outline with headings and bullet points"
	case ContentFlashcards:
		return "a set of question/answer flashcards, one Q: and A: pair per card"
	case ContentNotes:
		return "condensed revision notes"
	default:
		return "a well-structured essay"
	}
}
