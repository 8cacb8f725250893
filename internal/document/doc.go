// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document runs per-page extraction over multi-page documents.
//
// All page requests fire concurrently and the pipeline joins on every page
// settling, success or failure, before any document-wide aggregate is
// derived. One page's failure becomes that page's terminal error state; it
// never cancels sibling pages and never fails the batch.
package document
