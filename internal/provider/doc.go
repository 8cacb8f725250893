// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements the client for the hosted completion service.
//
// The service speaks the common chat-completions HTTP dialect: a JSON POST
// to /chat/completions, answered either with a single JSON body or, when
// stream is requested, with a text/event-stream body whose events carry
// incremental content deltas and end with a [DONE] sentinel.
//
// Stream decoding is built on a push-style FrameParser that accepts
// arbitrarily-split text chunks, since network chunks do not align with
// event boundaries. SSEReader wraps it for io.Reader bodies and is what the
// client consumes responses through.
package provider
