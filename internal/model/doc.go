// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain records for studyhall: chat sessions and
// messages, checker mistakes, marking results, document pages, and mindmap
// trees.
//
// Streamed collections obey monotonic refinement: re-extracting records from
// a growing buffer never retracts a committed record, it only appends new
// ones or completes an in-progress one before commit.
package model
