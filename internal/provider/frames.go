// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// STREAM FRAMES
// =============================================================================

// FrameKind classifies one decoded SSE event.
type FrameKind int

const (
	// FrameDelta carries an incremental content fragment.
	FrameDelta FrameKind = iota
	// FrameDone marks the end-of-stream sentinel.
	FrameDone
	// FrameMalformed marks a data line whose payload failed to decode.
	// Malformed frames are dropped by consumers, never surfaced as errors.
	FrameMalformed
)

// Frame is one decoded SSE event.
type Frame struct {
	Kind FrameKind
	Text string // delta content, for FrameDelta
	Raw  string // original line, for FrameMalformed
}

// StreamChunk is the JSON envelope of one streaming event.
type StreamChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
			Role    string `json:"role,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// GetContent returns the content delta from the first choice.
func (c *StreamChunk) GetContent() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// IsDone returns true if the chunk carries a finish reason.
func (c *StreamChunk) IsDone() bool {
	if len(c.Choices) > 0 {
		return c.Choices[0].FinishReason != ""
	}
	return false
}

// =============================================================================
// FRAME PARSER
// =============================================================================

const dataPrefix = "data:"

// FrameParser turns decoded text chunks into stream frames.
//
// Chunks do not align with event boundaries: one SSE event may be split
// across chunks and one chunk may contain several events. The parser buffers
// an unterminated tail line between Feed calls and never decodes a line it
// has not seen the newline for. After the [DONE] sentinel every further line
// is dropped.
type FrameParser struct {
	partial strings.Builder
	done    bool
}

// NewFrameParser creates a parser for one stream.
func NewFrameParser() *FrameParser {
	return &FrameParser{}
}

// Feed processes one decoded text chunk and returns the frames completed by
// it, in order.
func (p *FrameParser) Feed(chunk string) []Frame {
	var frames []Frame

	data := p.partial.String() + chunk
	p.partial.Reset()

	for {
		idx := strings.IndexByte(data, '\n')
		if idx < 0 {
			// Carry the unterminated tail into the next chunk.
			p.partial.WriteString(data)
			break
		}
		line := strings.TrimRight(data[:idx], "\r")
		data = data[idx+1:]

		if frame, ok := p.parseLine(line); ok {
			frames = append(frames, frame)
		}
	}

	return frames
}

// Close flushes the buffered tail, treating end-of-stream as the line
// terminator. Returns the final frame, if any.
func (p *FrameParser) Close() []Frame {
	tail := p.partial.String()
	p.partial.Reset()
	if tail == "" {
		return nil
	}
	if frame, ok := p.parseLine(strings.TrimRight(tail, "\r")); ok {
		return []Frame{frame}
	}
	return nil
}

// Done reports whether the [DONE] sentinel has been seen.
func (p *FrameParser) Done() bool {
	return p.done
}

// parseLine decodes one complete line into a frame.
//
// Lines without the data prefix (blank keep-alives, comments, event/id
// fields) are discarded silently, as are malformed JSON payloads: a single
// bad frame must not abort an otherwise healthy stream.
func (p *FrameParser) parseLine(line string) (Frame, bool) {
	if p.done {
		return Frame{}, false
	}
	if !strings.HasPrefix(line, dataPrefix) {
		return Frame{}, false
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if payload == "" {
		return Frame{}, false
	}
	if payload == "[DONE]" {
		p.done = true
		return Frame{Kind: FrameDone}, true
	}

	var chunk StreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return Frame{Kind: FrameMalformed, Raw: line}, true
	}

	if text := chunk.GetContent(); text != "" {
		return Frame{Kind: FrameDelta, Text: text}, true
	}
	// Role-only or empty delta envelopes contribute nothing.
	return Frame{}, false
}
