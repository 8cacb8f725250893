// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream turns decoded provider frames into a running text buffer.
//
// Each in-flight request owns exactly one Accumulator; the buffer grows by
// appending deltas and is republished to the owner after every append so the
// UI can show a typing effect. The accumulator closes on the done event and
// drops anything that arrives after it.
//
// The Event type is the UI-independent sequence (delta, done, error) that a
// single reducer per request consumes, which keeps the whole pipeline
// testable without a rendering layer.
package stream
