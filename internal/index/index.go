// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/studyhall-tui/internal/model"
	"github.com/jeranaias/studyhall-tui/internal/storage"
	"github.com/jeranaias/studyhall-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotIndexed  = errors.New("history not indexed")
	ErrInvalidPath = errors.New("invalid path")
)

// =============================================================================
// HISTORY INDEX
// =============================================================================

// HistoryIndex maintains a searchable SQLite index over stored sessions. It
// exists because full-text search across a large history by loading every
// JSON file is too slow for interactive use.
type HistoryIndex struct {
	db      *sql.DB
	store   *storage.HistoryStore
	watcher Watcher
	config  *Config
	mu      sync.RWMutex

	lastIndexed  time.Time
	sessionCount int
	messageCount int
}

// Config holds index configuration.
type Config struct {
	// DatabasePath is where to store the SQLite database.
	DatabasePath string

	// EnableWatch enables history-directory watching for incremental updates.
	EnableWatch bool

	// WatchDebounce is the debounce duration for file change events.
	WatchDebounce time.Duration
}

// DefaultConfig returns the default configuration, placing the database next
// to the history directory.
func DefaultConfig(historyDir string) *Config {
	return &Config{
		DatabasePath:  filepath.Join(filepath.Dir(historyDir), "history.db"),
		EnableWatch:   true,
		WatchDebounce: 500 * time.Millisecond,
	}
}

// NewHistoryIndex opens (or creates) the index database for the given store.
func NewHistoryIndex(store *storage.HistoryStore, config *Config) (*HistoryIndex, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	if config == nil {
		config = DefaultConfig(store.BaseDir)
	}

	if err := os.MkdirAll(filepath.Dir(config.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", config.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	idx := &HistoryIndex{
		db:     db,
		store:  store,
		config: config,
	}
	if err := idx.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return idx, nil
}

func (idx *HistoryIndex) initSchema() error {
	if _, err := idx.db.Exec(Schema); err != nil {
		return err
	}
	_, err := idx.db.Exec(InitMetadata)
	return err
}

// Close releases the database and stops the watcher if running.
func (idx *HistoryIndex) Close() error {
	if idx.watcher != nil {
		idx.watcher.Close()
	}
	return idx.db.Close()
}

// =============================================================================
// INDEXING
// =============================================================================

// Reindex rebuilds the index from every stored session.
func (idx *HistoryIndex) Reindex(ctx context.Context) error {
	sessions, err := idx.store.LoadSessions()
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		return err
	}
	for _, sess := range sessions {
		if err := insertSession(tx, sess); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO metadata (key, value) VALUES ('last_full_index', ?)",
		util.IntToString(int(time.Now().Unix())),
	); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	idx.lastIndexed = time.Now()
	idx.loadStatsLocked()
	return nil
}

// IndexSession inserts or replaces a single session in the index.
func (idx *HistoryIndex) IndexSession(sess *model.ChatSession) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", sess.ID); err != nil {
		return err
	}
	if err := insertSession(tx, sess); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	idx.loadStatsLocked()
	return nil
}

// RemoveSession drops a session from the index.
func (idx *HistoryIndex) RemoveSession(id string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, err := idx.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return err
	}
	idx.loadStatsLocked()
	return nil
}

func insertSession(tx *sql.Tx, sess *model.ChatSession) error {
	_, err := tx.Exec(`
		INSERT INTO sessions (id, title, created_at, last_updated, message_count, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sess.ID, sess.Title, sess.CreatedAt.Unix(), sess.LastUpdated.Unix(),
		len(sess.Messages), time.Now().Unix())
	if err != nil {
		return err
	}

	for _, msg := range sess.Messages {
		if _, err := tx.Exec(`
			INSERT INTO messages (session_id, message_id, role, content, ts)
			VALUES (?, ?, ?, ?, ?)
		`, sess.ID, msg.ID, msg.Role.String(), msg.Content, msg.Timestamp.Unix()); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchHit is one matching message with its session context.
type SearchHit struct {
	SessionID    string
	SessionTitle string
	MessageID    string
	Role         string
	Snippet      string
}

// Search runs a full-text query over message content, best matches first.
func (idx *HistoryIndex) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rows, err := idx.db.QueryContext(ctx, `
		SELECT s.id, s.title, m.message_id, m.role,
		       snippet(messages_fts, 0, '', '', '...', 12)
		FROM messages_fts
		JOIN messages m ON m.id = messages_fts.rowid
		JOIN sessions s ON s.id = m.session_id
		WHERE messages_fts MATCH ?
		ORDER BY bm25(messages_fts)
		LIMIT ?
	`, ftsQuote(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.SessionID, &h.SessionTitle, &h.MessageID, &h.Role, &h.Snippet); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ftsQuote wraps the user query as a quoted FTS5 string so punctuation in
// natural-language queries cannot be misread as query syntax.
func ftsQuote(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}

// =============================================================================
// STATS
// =============================================================================

// Stats describes the current index contents.
type Stats struct {
	Sessions    int
	Messages    int
	LastIndexed time.Time
}

// Stats returns current index counters.
func (idx *HistoryIndex) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{
		Sessions:    idx.sessionCount,
		Messages:    idx.messageCount,
		LastIndexed: idx.lastIndexed,
	}
}

func (idx *HistoryIndex) loadStatsLocked() {
	idx.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&idx.sessionCount)
	idx.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&idx.messageCount)
}

// =============================================================================
// WATCHING
// =============================================================================

// StartWatching begins watching the history directory, falling back to
// polling when fsnotify is unavailable on the platform.
func (idx *HistoryIndex) StartWatching() error {
	if !idx.config.EnableWatch {
		return nil
	}

	if w, err := NewHistoryWatcher(idx, idx.config.WatchDebounce); err == nil {
		if err := w.Watch(); err == nil {
			idx.watcher = w
			return nil
		}
		w.Close()
	}

	pw := NewPollingWatcher(idx, 5*time.Second)
	if err := pw.Watch(); err != nil {
		return err
	}
	idx.watcher = pw
	return nil
}

// reindexFile re-indexes the session stored at path, or removes it from the
// index when the file is gone.
func (idx *HistoryIndex) reindexFile(path string) {
	id := strings.TrimSuffix(filepath.Base(path), ".json")
	sessions, err := idx.store.LoadSessions()
	if err != nil {
		return
	}
	for _, sess := range sessions {
		if sess.ID == id {
			idx.IndexSession(sess)
			return
		}
	}
	idx.RemoveSession(id)
}
