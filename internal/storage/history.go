// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides JSON-file persistence for chat history.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// HISTORY STORE
// =============================================================================

// HistoryStore persists one JSON file per session under a base directory.
// It implements session.HistoryRepository.
type HistoryStore struct {
	// BaseDir is the directory for stored sessions.
	// Default: ~/.studyhall/history/
	BaseDir string

	// MaxSessions limits stored sessions (0 = unlimited). The oldest
	// sessions by last update are removed when the limit is exceeded.
	MaxSessions int
}

// NewHistoryStore creates a store rooted in the user's home directory.
func NewHistoryStore() (*HistoryStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewHistoryStoreWithDir(filepath.Join(homeDir, ".studyhall", "history"))
}

// NewHistoryStoreWithDir creates a store with a custom directory.
func NewHistoryStoreWithDir(baseDir string) (*HistoryStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &HistoryStore{
		BaseDir:     baseDir,
		MaxSessions: 100,
	}, nil
}

// =============================================================================
// REPOSITORY INTERFACE
// =============================================================================

// LoadSessions reads every stored session, most recently updated first.
// Corrupted files are skipped rather than failing the whole load, so one bad
// write never locks the user out of their history.
func (s *HistoryStore) LoadSessions() ([]*model.ChatSession, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var sessions []*model.ChatSession
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		sess, err := s.load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		sessions = append(sessions, sess)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LastUpdated.After(sessions[j].LastUpdated)
	})
	return sessions, nil
}

// SaveSessions replaces the stored collection: every session is written
// atomically, and files for sessions no longer in the list are removed.
func (s *HistoryStore) SaveSessions(sessions []*model.ChatSession) error {
	keep := make(map[string]bool, len(sessions))
	for _, sess := range sessions {
		keep[sess.ID] = true
		if err := s.save(sess); err != nil {
			return err
		}
	}

	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if id := strings.TrimSuffix(entry.Name(), ".json"); !keep[id] {
			os.Remove(filepath.Join(s.BaseDir, entry.Name()))
		}
	}

	if s.MaxSessions > 0 {
		s.enforceLimit()
	}
	return nil
}

// =============================================================================
// FILE OPERATIONS
// =============================================================================

func (s *HistoryStore) save(sess *model.ChatSession) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	// RELIABILITY: atomic write with fsync prevents data loss on crash
	return util.AtomicWriteFile(s.filePath(sess.ID), data, 0644)
}

func (s *HistoryStore) load(id string) (*model.ChatSession, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		return nil, err
	}
	var sess model.ChatSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	if sess.ID == "" {
		sess.ID = id
	}
	return &sess, nil
}

// enforceLimit removes the oldest sessions when over the limit.
func (s *HistoryStore) enforceLimit() {
	sessions, err := s.LoadSessions()
	if err != nil || len(sessions) <= s.MaxSessions {
		return
	}
	// LoadSessions sorts most recent first; everything past the limit goes.
	for _, sess := range sessions[s.MaxSessions:] {
		os.Remove(s.filePath(sess.ID))
	}
}

func (s *HistoryStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

// =============================================================================
// SEARCH
// =============================================================================

// Search returns sessions whose title or message content contains the query,
// case-insensitive. An empty query returns everything.
func (s *HistoryStore) Search(query string) ([]*model.ChatSession, error) {
	sessions, err := s.LoadSessions()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return sessions, nil
	}

	query = strings.ToLower(query)
	var results []*model.ChatSession
	for _, sess := range sessions {
		if sessionMatches(sess, query) {
			results = append(results, sess)
		}
	}
	return results, nil
}

func sessionMatches(sess *model.ChatSession, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(sess.Title), lowerQuery) {
		return true
	}
	for _, msg := range sess.Messages {
		if strings.Contains(strings.ToLower(msg.Content), lowerQuery) {
			return true
		}
	}
	return false
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown renders a session as a Markdown transcript.
func ExportMarkdown(sess *model.ChatSession) string {
	var sb strings.Builder
	sb.WriteString("# " + sess.Title + "\n\n")
	sb.WriteString("Created: " + sess.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range sess.Messages {
		sb.WriteString("**" + msg.Role.DisplayName() + "** (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}
	return sb.String()
}

// ExportJSON renders a session as pretty-printed JSON.
func ExportJSON(sess *model.ChatSession) ([]byte, error) {
	return json.MarshalIndent(sess, "", "  ")
}

// =============================================================================
// SESSION LIST FORMATTING
// =============================================================================

// FormatSessionList renders sessions as a plain-text table for CLI output.
func FormatSessionList(sessions []*model.ChatSession) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString("Sessions:\n")
	sb.WriteString("-----------------------------------------------------\n")
	sb.WriteString(pad("ID", 14) + " " + pad("Updated", 18) + " " + pad("Messages", 8) + " Title\n")
	sb.WriteString("-----------------------------------------------------\n")

	for _, sess := range sessions {
		sb.WriteString(pad(util.TruncateRunes(sess.ID, 14), 14) + " " +
			pad(sess.LastUpdated.Format("2006-01-02 15:04"), 18) + " " +
			pad(util.IntToString(len(sess.Messages)), 8) + " " +
			util.TruncateRunes(sess.Title, 40) + "\n")
	}
	return sb.String()
}

func pad(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
