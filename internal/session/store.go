// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSessionNotFound indicates the session id matches nothing.
	ErrSessionNotFound = errors.New("session: not found")
	// ErrMessageNotFound indicates the message id matches nothing in the session.
	ErrMessageNotFound = errors.New("session: message not found")
	// ErrLastSession indicates a refused delete of the only remaining session.
	ErrLastSession = errors.New("session: cannot delete the last session")
)

// =============================================================================
// REPOSITORY
// =============================================================================

// HistoryRepository persists the full session list. Implementations replace
// the stored collection wholesale on every save.
type HistoryRepository interface {
	LoadSessions() ([]*model.ChatSession, error)
	SaveSessions(sessions []*model.ChatSession) error
}

// =============================================================================
// STORE
// =============================================================================

// MessagePatch is a partial message update. Nil fields are left unchanged;
// set fields are merged over a copy of the existing message.
type MessagePatch struct {
	Content  *string
	Liked    *bool
	Disliked *bool
}

// Store holds the ordered session list and the active selection.
type Store struct {
	mu       sync.RWMutex
	sessions []*model.ChatSession
	activeID string
	repo     HistoryRepository
}

// NewStore creates a store backed by repo. repo may be nil for an in-memory
// store (used by tests and one-shot CLI commands).
func NewStore(repo HistoryRepository) *Store {
	return &Store{repo: repo}
}

// Load replaces the in-memory list with the repository's contents and
// selects the first session, creating one if the repository is empty.
func (s *Store) Load() error {
	if s.repo == nil {
		return nil
	}
	sessions, err := s.repo.LoadSessions()
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = sessions
	if len(s.sessions) > 0 {
		s.activeID = s.sessions[0].ID
	} else {
		s.activeID = ""
	}
	return nil
}

// CreateSession appends a new session with the given title (or the default
// title if empty), makes it active, and returns its id.
func (s *Store) CreateSession(title string) (string, error) {
	if title == "" {
		title = model.DefaultSessionTitle
	}
	sess := model.NewChatSession(title)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(s.snapshotLocked(), sess)
	if err := s.persistLocked(next); err != nil {
		return "", err
	}
	s.sessions = next
	s.activeID = sess.ID
	return sess.ID, nil
}

// AppendMessage adds msg to the session, deriving the session title from the
// first user message when the session still carries the default title.
func (s *Store) AppendMessage(sessionID string, msg *model.ChatMessage) error {
	return s.replaceSession(sessionID, func(sess *model.ChatSession) error {
		sess.AddMessage(msg.Clone())
		return nil
	})
}

// UpdateMessage merges patch over a copy of the matching message.
func (s *Store) UpdateMessage(sessionID, messageID string, patch MessagePatch) error {
	return s.replaceSession(sessionID, func(sess *model.ChatSession) error {
		for i, m := range sess.Messages {
			if m.ID != messageID {
				continue
			}
			updated := m.Clone()
			if patch.Content != nil {
				updated.Edit(*patch.Content)
			}
			if patch.Liked != nil {
				if *patch.Liked {
					updated.SetLiked()
				} else {
					updated.Liked = false
				}
			}
			if patch.Disliked != nil {
				if *patch.Disliked {
					updated.SetDisliked()
				} else {
					updated.Disliked = false
				}
			}
			sess.Messages[i] = updated
			sess.LastUpdated = time.Now()
			return nil
		}
		return ErrMessageNotFound
	})
}

// DeleteMessage removes the matching message from the session.
func (s *Store) DeleteMessage(sessionID, messageID string) error {
	return s.replaceSession(sessionID, func(sess *model.ChatSession) error {
		if !sess.RemoveMessage(messageID) {
			return ErrMessageNotFound
		}
		return nil
	})
}

// DeleteSession removes the session. Deleting the last remaining session is
// refused; deleting the active session selects the first remaining one.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sessions) <= 1 {
		return ErrLastSession
	}

	next := make([]*model.ChatSession, 0, len(s.sessions)-1)
	found := false
	for _, sess := range s.sessions {
		if sess.ID == id {
			found = true
			continue
		}
		next = append(next, sess)
	}
	if !found {
		return ErrSessionNotFound
	}

	if err := s.persistLocked(next); err != nil {
		return err
	}
	s.sessions = next
	if s.activeID == id {
		s.activeID = next[0].ID
	}
	return nil
}

// SwitchActive selects the given session.
func (s *Store) SwitchActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.ID == id {
			s.activeID = id
			return nil
		}
	}
	return ErrSessionNotFound
}

// Active returns a deep copy of the active session, or nil when the store is
// empty.
func (s *Store) Active() *model.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.ID == s.activeID {
			return sess.Clone()
		}
	}
	return nil
}

// Get returns a deep copy of the matching session.
func (s *Store) Get(id string) (*model.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess.Clone(), nil
		}
	}
	return nil, ErrSessionNotFound
}

// Sessions returns deep copies of all sessions in order.
func (s *Store) Sessions() []*model.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.ChatSession, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Count returns the number of sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// replaceSession clones the matching session, applies mutate to the clone,
// and swaps the clone into a new list. The original session object is never
// touched, so snapshots held by readers stay stable.
func (s *Store) replaceSession(sessionID string, mutate func(*model.ChatSession) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sess := range s.sessions {
		if sess.ID != sessionID {
			continue
		}
		updated := sess.Clone()
		if err := mutate(updated); err != nil {
			return err
		}

		next := s.snapshotLocked()
		next[i] = updated
		if err := s.persistLocked(next); err != nil {
			return err
		}
		s.sessions = next
		return nil
	}
	return ErrSessionNotFound
}

// snapshotLocked copies the list itself; elements are shared until replaced.
func (s *Store) snapshotLocked() []*model.ChatSession {
	next := make([]*model.ChatSession, len(s.sessions))
	copy(next, s.sessions)
	return next
}

func (s *Store) persistLocked(sessions []*model.ChatSession) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveSessions(sessions); err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}
	return nil
}
