// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/studyhall-tui/internal/model"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewHistoryStoreWithDir: %v", err)
	}
	return store
}

func sessionWithMessages(title string, contents ...string) *model.ChatSession {
	sess := model.NewChatSession(title)
	for _, c := range contents {
		sess.AddMessage(model.NewUserMessage(c))
	}
	return sess
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	sess := sessionWithMessages("Algebra Help", "solve x^2 = 9")
	if err := store.SaveSessions([]*model.ChatSession{sess}); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}

	loaded, err := store.LoadSessions()
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d sessions, want 1", len(loaded))
	}
	got := loaded[0]
	if got.ID != sess.ID || got.Title != "Algebra Help" {
		t.Errorf("loaded session = %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "solve x^2 = 9" {
		t.Errorf("loaded messages = %+v", got.Messages)
	}
}

func TestSaveSessionsRemovesDeleted(t *testing.T) {
	store := newTestStore(t)

	a := sessionWithMessages("A")
	b := sessionWithMessages("B")
	if err := store.SaveSessions([]*model.ChatSession{a, b}); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}
	if err := store.SaveSessions([]*model.ChatSession{b}); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}

	loaded, err := store.LoadSessions()
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != b.ID {
		t.Errorf("loaded = %+v, want only session B", loaded)
	}
}

func TestLoadSkipsCorruptedFiles(t *testing.T) {
	store := newTestStore(t)

	good := sessionWithMessages("Good")
	if err := store.SaveSessions([]*model.ChatSession{good}); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}
	bad := filepath.Join(store.BaseDir, "sess_corrupt.json")
	if err := os.WriteFile(bad, []byte("{truncated"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	loaded, err := store.LoadSessions()
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != good.ID {
		t.Errorf("loaded = %+v, want only the good session", loaded)
	}
}

func TestLoadOrdersMostRecentFirst(t *testing.T) {
	store := newTestStore(t)

	old := sessionWithMessages("Old")
	old.LastUpdated = time.Now().Add(-time.Hour)
	recent := sessionWithMessages("Recent")
	if err := store.SaveSessions([]*model.ChatSession{old, recent}); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}

	loaded, err := store.LoadSessions()
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Title != "Recent" {
		t.Errorf("order = %v", []string{loaded[0].Title, loaded[1].Title})
	}
}

func TestLoadEmptyDir(t *testing.T) {
	store := newTestStore(t)
	loaded, err := store.LoadSessions()
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded = %+v, want none", loaded)
	}
}

func TestMaxSessionsEnforced(t *testing.T) {
	store := newTestStore(t)
	store.MaxSessions = 2

	sessions := []*model.ChatSession{
		sessionWithMessages("One"),
		sessionWithMessages("Two"),
		sessionWithMessages("Three"),
	}
	for i, sess := range sessions {
		sess.LastUpdated = time.Now().Add(time.Duration(i) * time.Minute)
	}
	if err := store.SaveSessions(sessions); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}

	loaded, err := store.LoadSessions()
	if err != nil {
		t.Fatalf("LoadSessions: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d sessions, want 2", len(loaded))
	}
	for _, sess := range loaded {
		if sess.Title == "One" {
			t.Error("oldest session survived limit enforcement")
		}
	}
}

func TestSearchTitleAndContent(t *testing.T) {
	store := newTestStore(t)
	sessions := []*model.ChatSession{
		sessionWithMessages("Chemistry", "explain covalent bonds"),
		sessionWithMessages("History", "the treaty of versailles"),
	}
	if err := store.SaveSessions(sessions); err != nil {
		t.Fatalf("SaveSessions: %v", err)
	}

	byTitle, err := store.Search("chem")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].Title != "Chemistry" {
		t.Errorf("title search = %+v", byTitle)
	}

	byContent, err := store.Search("VERSAILLES")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(byContent) != 1 || byContent[0].Title != "History" {
		t.Errorf("content search = %+v", byContent)
	}

	all, err := store.Search("")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("empty query returned %d sessions, want 2", len(all))
	}
}

func TestExportMarkdown(t *testing.T) {
	sess := sessionWithMessages("Essay Review", "check my thesis statement")
	md := ExportMarkdown(sess)

	for _, want := range []string{"# Essay Review", "**You**", "check my thesis statement"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestFormatSessionList(t *testing.T) {
	out := FormatSessionList(nil)
	if out != "No sessions found." {
		t.Errorf("empty list output = %q", out)
	}

	sess := sessionWithMessages("Trig Identities", "prove sin^2 + cos^2 = 1")
	out = FormatSessionList([]*model.ChatSession{sess})
	if !strings.Contains(out, "Trig Identities") {
		t.Errorf("list output missing title:\n%s", out)
	}
}
