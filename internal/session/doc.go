// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the ordered list of chat sessions and the active
// selection.
//
// Mutations are copy-on-write: the store never edits a session or message
// held by a caller in place, it replaces the matching record with a merged
// copy inside an otherwise-unchanged list. Readers therefore keep stable
// snapshots across concurrent mutations.
//
// Persistence is delegated to a HistoryRepository; the store persists after
// every successful mutation and treats persistence failure as a mutation
// failure.
package session
