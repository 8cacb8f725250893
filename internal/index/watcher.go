// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// WATCHER INTERFACE
// =============================================================================

// Watcher is the interface for history-directory watching implementations.
type Watcher interface {
	// Watch starts watching for file changes
	Watch() error

	// Close stops watching and releases resources
	Close() error
}

// =============================================================================
// HISTORY WATCHER
// =============================================================================

// HistoryWatcher keeps the index current when session files change on disk
// outside the running process (another instance, a sync tool, manual edits).
type HistoryWatcher struct {
	idx      *HistoryIndex
	watcher  *fsnotify.Watcher
	debounce time.Duration
	mu       sync.Mutex
	pending  map[string]time.Time // file path -> last change time
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewHistoryWatcher creates an fsnotify-based watcher for the index's
// history directory.
func NewHistoryWatcher(idx *HistoryIndex, debounce time.Duration) (*HistoryWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &HistoryWatcher{
		idx:      idx,
		watcher:  watcher,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching the history directory.
func (w *HistoryWatcher) Watch() error {
	if err := w.watcher.Add(w.idx.store.BaseDir); err != nil {
		return err
	}
	go w.processEvents()
	go w.processPending()
	return nil
}

func (w *HistoryWatcher) processEvents() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			// Atomic saves surface as Create+Rename; deletions as
			// Remove/Rename. All of them funnel through the debounce map
			// and reindexFile decides between update and removal.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending[event.Name] = time.Now()
				w.mu.Unlock()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// processPending flushes debounced changes to the index.
func (w *HistoryWatcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var toProcess []string
			for path, changeTime := range w.pending {
				if now.Sub(changeTime) >= w.debounce {
					toProcess = append(toProcess, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range toProcess {
				w.idx.reindexFile(path)
			}
		}
	}
}

// Close stops watching and releases resources.
func (w *HistoryWatcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// =============================================================================
// POLLING FALLBACK
// =============================================================================

// PollingWatcher re-scans the history directory on an interval for platforms
// where fsnotify is unavailable.
type PollingWatcher struct {
	idx      *HistoryIndex
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	files    map[string]time.Time
	mu       sync.Mutex
}

// NewPollingWatcher creates a polling-based watcher.
func NewPollingWatcher(idx *HistoryIndex, interval time.Duration) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &PollingWatcher{
		idx:      idx,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		files:    make(map[string]time.Time),
	}
}

// Watch scans once and then polls on the configured interval.
func (pw *PollingWatcher) Watch() error {
	if err := pw.scan(); err != nil {
		return err
	}
	go pw.poll()
	return nil
}

func (pw *PollingWatcher) scan() error {
	matches, err := filepath.Glob(filepath.Join(pw.idx.store.BaseDir, "*.json"))
	if err != nil {
		return err
	}

	pw.mu.Lock()
	defer pw.mu.Unlock()

	newFiles := make(map[string]time.Time, len(matches))
	for _, path := range matches {
		if info, err := statFile(path); err == nil {
			newFiles[path] = info
		}
	}
	pw.files = newFiles
	return nil
}

func (pw *PollingWatcher) poll() {
	ticker := time.NewTicker(pw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-pw.ctx.Done():
			return
		case <-ticker.C:
			pw.checkChanges()
		}
	}
}

func (pw *PollingWatcher) checkChanges() {
	pw.mu.Lock()
	oldFiles := make(map[string]time.Time, len(pw.files))
	for k, v := range pw.files {
		oldFiles[k] = v
	}
	pw.mu.Unlock()

	if err := pw.scan(); err != nil {
		return
	}

	pw.mu.Lock()
	currentFiles := pw.files
	pw.mu.Unlock()

	for path, modTime := range currentFiles {
		if oldTime, exists := oldFiles[path]; !exists || !oldTime.Equal(modTime) {
			pw.idx.reindexFile(path)
		}
	}
	for path := range oldFiles {
		if _, exists := currentFiles[path]; !exists {
			pw.idx.reindexFile(path)
		}
	}
}

// Close stops polling.
func (pw *PollingWatcher) Close() error {
	pw.cancel()
	return nil
}

func statFile(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
