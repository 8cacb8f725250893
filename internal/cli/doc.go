// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the studyhall command-line interface.
//
// Commands fall into three groups: the default TUI launcher, one-shot study
// commands (ask, solve, check, mark, summarize, cite, write) that stream to
// stdout, and management commands (sessions, config, setup).
//
// Every command supports --json for machine-readable output; human-readable
// progress goes to stderr so piped output stays clean.
package cli
