// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract parses loosely-structured model output into typed records.
//
// The model emits tagged lines (MISTAKE:, CORRECTION:, TYPE:, QUESTION:, and
// so on) rather than strict JSON, because tagged lines survive streaming:
// every extractor here is a pure function over the full accumulated buffer
// and is re-run from scratch on every accumulation tick. Records already
// committed on one tick are committed again, identically, on the next; an
// in-progress record at the end of the buffer is withheld until its required
// fields all arrive.
//
// The mindmap extractor is the exception: it runs once at stream completion
// and decodes a JSON tree, falling back to a heading-derived tree when the
// model's output is not valid JSON.
package extract
