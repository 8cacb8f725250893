// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package study orchestrates the tutoring features on top of the streaming
// pipeline: chat tutoring, homework solving, mistake checking, submission
// marking, document summarizing, citation generation, and content writing.
//
// Each orchestrator owns one request at a time: it streams the model
// response, republishes partial state on every tick, and converts transport
// failures into renderable results (an apologetic assistant message, a page
// error badge, a fallback tree) at this boundary. Parse failures are never
// errors here; every extractor has a defined fallback.
package study
