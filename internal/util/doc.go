// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for studyhall.
//
// It contains atomic file writing used by every persistence layer, and
// rune/width-aware string helpers used by the CLI and TUI surfaces.
package util
