// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive tutor view of the TUI.
//
// The view is a Bubble Tea model composed of a transcript viewport, a text
// input, and a thinking spinner. Questions run through the study tutor, which
// appends both sides of the turn to the active session; the streamed partial
// answer is polled at a capped frame rate so rendering stays smooth under
// fast token delivery.
//
// Slash commands (/new, /sessions, /switch, ...) manage sessions and message
// feedback without leaving the view.
package chat
