// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cite formats citation records in the supported reference styles.
//
// Formatting embeds the author, year, and title fields verbatim, so a
// rendered citation can be checked against its source record by plain
// substring matching. Only container names are re-cased.
package cite
