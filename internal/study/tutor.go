// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package study

import (
	"context"
	"errors"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/provider"
	"github.com/jeranaias/studyhall-tui/internal/session"
	"github.com/jeranaias/studyhall-tui/internal/stream"
)

// =============================================================================
// COMPLETER INTERFACE
// =============================================================================

// Completer is the slice of the provider client the orchestrators consume.
type Completer interface {
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
	ChatStream(ctx context.Context, messages []provider.ChatMessage, callback provider.StreamCallback) error
}

// apologyMessage replaces raw transport errors in chat-style flows.
const apologyMessage = "I'm sorry, I ran into a problem answering that. Please try again."

// =============================================================================
// TUTOR
// =============================================================================

// Tutor runs chat turns against the active session.
type Tutor struct {
	client Completer
	store  *session.Store
}

// NewTutor creates a tutor over the given session store.
func NewTutor(client Completer, store *session.Store) *Tutor {
	return &Tutor{client: client, store: store}
}

// Ask runs one chat turn: the question is appended to the session, the
// response streams through onTick with the full accumulated text on every
// delta, and the finished assistant message is appended and returned.
//
// On transport failure the assistant message carries the partial content
// received so far, or an apology when nothing arrived; the error is also
// returned so callers can log it. The session never receives a raw error.
func (t *Tutor) Ask(ctx context.Context, sessionID, question string, onTick func(partial string)) (*model.ChatMessage, error) {
	userMsg := model.NewUserMessage(question)
	if err := t.store.AppendMessage(sessionID, userMsg); err != nil {
		return nil, err
	}

	sess, err := t.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	content, streamErr := t.streamTurn(ctx, sess, onTick)
	if streamErr != nil && content == "" {
		content = apologyMessage
	}

	assistantMsg := model.NewMessage(model.RoleAssistant, content)
	if err := t.store.AppendMessage(sessionID, assistantMsg); err != nil {
		return nil, err
	}
	return assistantMsg, streamErr
}

// AskOnce runs a single tutoring turn without a session. Used by the one-shot
// CLI path where nothing is persisted. onTick may be nil.
func (t *Tutor) AskOnce(ctx context.Context, question string, onTick func(partial string)) (string, error) {
	messages := []provider.ChatMessage{
		provider.NewSystemMessage(tutorSystemPrompt),
		provider.NewUserMessage(question),
	}

	acc := stream.NewAccumulator(onTick)
	err := t.client.ChatStream(ctx, messages, acc.ApplyFrame)
	if err != nil {
		var serr *provider.StreamError
		if errors.As(err, &serr) && serr.Partial != "" {
			return serr.Partial, err
		}
		return acc.Text(), err
	}
	return acc.Text(), nil
}

// streamTurn streams one completion for the session transcript and returns
// the accumulated text, partial on failure.
func (t *Tutor) streamTurn(ctx context.Context, sess *model.ChatSession, onTick func(string)) (string, error) {
	messages := make([]provider.ChatMessage, 0, len(sess.Messages)+1)
	messages = append(messages, provider.NewSystemMessage(tutorSystemPrompt))
	for _, msg := range sess.Messages {
		switch msg.Role {
		case model.RoleUser:
			messages = append(messages, provider.NewUserMessage(msg.Content))
		case model.RoleAssistant:
			messages = append(messages, provider.NewAssistantMessage(msg.Content))
		}
	}

	acc := stream.NewAccumulator(onTick)
	err := t.client.ChatStream(ctx, messages, acc.ApplyFrame)
	if err != nil {
		var serr *provider.StreamError
		if errors.As(err, &serr) && serr.Partial != "" {
			return serr.Partial, err
		}
		return acc.Text(), err
	}
	return acc.Text(), nil
}
