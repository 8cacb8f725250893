// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index provides full-text search over stored chat history.
//
// The index is a small SQLite database (FTS5) built from the JSON session
// files; it can be rebuilt from scratch at any time with Reindex, so it is a
// cache, never the source of truth. A directory watcher keeps it current
// when session files change outside the running process.
package index
