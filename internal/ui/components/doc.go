// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides UI components for the studyhall TUI.

Components are stateless renderers or small Bubble Tea models that the chat
view composes:

  - Header and StatusBar frame the chat view
  - MessageBubble renders chat transcript entries
  - MistakeList, MarkSheet, and MindmapTree render study results
  - CodeBlock applies chroma syntax highlighting to fenced code
  - Spinner wraps the bubbles spinner for thinking states

All components take a *styles.Theme so the palette stays consistent across
the application.
*/
package components
