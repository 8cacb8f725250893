// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

// deltaLine builds a well-formed SSE data line carrying one content delta.
func deltaLine(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n"
}

func collectDeltas(frames []Frame) string {
	var sb strings.Builder
	for _, f := range frames {
		if f.Kind == FrameDelta {
			sb.WriteString(f.Text)
		}
	}
	return sb.String()
}

func TestFrameParserBasic(t *testing.T) {
	p := NewFrameParser()

	frames := p.Feed(deltaLine("Hello") + deltaLine(" world") + "data: [DONE]\n")

	if got := collectDeltas(frames); got != "Hello world" {
		t.Errorf("deltas = %q, want %q", got, "Hello world")
	}
	if !p.Done() {
		t.Error("parser not done after [DONE]")
	}
	last := frames[len(frames)-1]
	if last.Kind != FrameDone {
		t.Errorf("last frame kind = %v, want done", last.Kind)
	}
}

func TestFrameParserSplitAcrossChunks(t *testing.T) {
	p := NewFrameParser()

	// One event split mid-JSON across three chunks.
	line := deltaLine("incremental")
	var frames []Frame
	frames = append(frames, p.Feed(line[:10])...)
	frames = append(frames, p.Feed(line[10:25])...)
	frames = append(frames, p.Feed(line[25:])...)

	if got := collectDeltas(frames); got != "incremental" {
		t.Errorf("deltas = %q, want %q", got, "incremental")
	}
}

func TestFrameParserMultipleEventsOneChunk(t *testing.T) {
	p := NewFrameParser()
	frames := p.Feed(deltaLine("a") + deltaLine("b") + deltaLine("c"))
	if got := collectDeltas(frames); got != "abc" {
		t.Errorf("deltas = %q, want %q", got, "abc")
	}
}

func TestFrameParserMalformedLineSkipped(t *testing.T) {
	p := NewFrameParser()

	// A malformed JSON line between two valid deltas must not abort the
	// stream; only the valid deltas contribute content.
	input := deltaLine("good1") + "data: {not json at all\n" + deltaLine("good2")
	frames := p.Feed(input)

	if got := collectDeltas(frames); got != "good1good2" {
		t.Errorf("deltas = %q, want %q", got, "good1good2")
	}

	malformed := 0
	for _, f := range frames {
		if f.Kind == FrameMalformed {
			malformed++
		}
	}
	if malformed != 1 {
		t.Errorf("malformed frames = %d, want 1", malformed)
	}
}

func TestFrameParserIgnoresNonDataLines(t *testing.T) {
	p := NewFrameParser()
	input := "\n: keep-alive comment\nevent: message\n" + deltaLine("x") + "id: 42\n"
	frames := p.Feed(input)
	if len(frames) != 1 || frames[0].Kind != FrameDelta || frames[0].Text != "x" {
		t.Errorf("frames = %+v, want single delta \"x\"", frames)
	}
}

func TestFrameParserDropsAfterDone(t *testing.T) {
	p := NewFrameParser()
	frames := p.Feed("data: [DONE]\n" + deltaLine("trailing"))

	if len(frames) != 1 || frames[0].Kind != FrameDone {
		t.Errorf("frames after done = %+v, want only the done frame", frames)
	}
	if got := collectDeltas(frames); got != "" {
		t.Errorf("content delivered after [DONE]: %q", got)
	}
}

func TestFrameParserNeverParsesIncompleteLine(t *testing.T) {
	p := NewFrameParser()

	// Feed a prefix that, taken alone, is syntactically broken JSON. No
	// frame may be produced until the newline arrives.
	line := deltaLine("complete")
	frames := p.Feed(line[:len(line)-5])
	if len(frames) != 0 {
		t.Fatalf("frames from incomplete line: %+v", frames)
	}

	frames = p.Feed(line[len(line)-5:])
	if got := collectDeltas(frames); got != "complete" {
		t.Errorf("deltas = %q, want %q", got, "complete")
	}
}

func TestFrameParserCloseFlushesTail(t *testing.T) {
	p := NewFrameParser()

	// Stream ends without a trailing newline; EOF terminates the line.
	if frames := p.Feed(strings.TrimSuffix(deltaLine("tail"), "\n")); len(frames) != 0 {
		t.Fatalf("premature frames: %+v", frames)
	}
	frames := p.Close()
	if got := collectDeltas(frames); got != "tail" {
		t.Errorf("deltas after close = %q, want %q", got, "tail")
	}
}

func TestFrameParserCRLF(t *testing.T) {
	p := NewFrameParser()
	frames := p.Feed("data: {\"choices\":[{\"delta\":{\"content\":\"crlf\"}}]}\r\ndata: [DONE]\r\n")
	if got := collectDeltas(frames); got != "crlf" {
		t.Errorf("deltas = %q, want %q", got, "crlf")
	}
	if !p.Done() {
		t.Error("parser not done")
	}
}

func TestFrameParserEmptyDeltaSkipped(t *testing.T) {
	p := NewFrameParser()
	frames := p.Feed(`data: {"choices":[{"delta":{"role":"assistant"}}]}` + "\n")
	if len(frames) != 0 {
		t.Errorf("role-only envelope produced frames: %+v", frames)
	}
}

// =============================================================================
// SSE READER
// =============================================================================

// drainReader reads frames until io.EOF and returns them.
func drainReader(t *testing.T, r *SSEReader) []Frame {
	t.Helper()
	var frames []Frame
	for {
		frame, err := r.ReadFrame()
		if err == io.EOF {
			return frames
		}
		if err != nil {
			t.Fatalf("ReadFrame: %v", err)
		}
		frames = append(frames, frame)
	}
}

func TestSSEReaderBasic(t *testing.T) {
	body := deltaLine("Hello") + deltaLine(" world") + "data: [DONE]\n"
	r := NewSSEReader(strings.NewReader(body))

	frames := drainReader(t, r)

	if got := collectDeltas(frames); got != "Hello world" {
		t.Errorf("deltas = %q, want %q", got, "Hello world")
	}
	if frames[len(frames)-1].Kind != FrameDone {
		t.Errorf("last frame kind = %v, want done", frames[len(frames)-1].Kind)
	}
}

func TestSSEReaderSingleByteBody(t *testing.T) {
	// Transport chunking must not matter, down to one byte per read.
	body := deltaLine("Pho") + "event: ping\n" + deltaLine("tosynthesis") + "data: [DONE]\n"
	r := NewSSEReader(iotest.OneByteReader(strings.NewReader(body)))

	frames := drainReader(t, r)

	if got := collectDeltas(frames); got != "Photosynthesis" {
		t.Errorf("deltas = %q, want %q", got, "Photosynthesis")
	}
}

func TestSSEReaderFlushesUnterminatedTail(t *testing.T) {
	// Stream ends without [DONE] and without a trailing newline.
	body := deltaLine("head") + strings.TrimSuffix(deltaLine("tail"), "\n")
	r := NewSSEReader(strings.NewReader(body))

	frames := drainReader(t, r)

	if got := collectDeltas(frames); got != "headtail" {
		t.Errorf("deltas = %q, want %q", got, "headtail")
	}
}

func TestSSEReaderEOFAfterDone(t *testing.T) {
	r := NewSSEReader(strings.NewReader("data: [DONE]\n" + deltaLine("trailing")))

	frames := drainReader(t, r)

	if len(frames) != 1 || frames[0].Kind != FrameDone {
		t.Errorf("frames = %+v, want only the done frame", frames)
	}
	if _, err := r.ReadFrame(); err != io.EOF {
		t.Errorf("ReadFrame after done = %v, want io.EOF", err)
	}
}
