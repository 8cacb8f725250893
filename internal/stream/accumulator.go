// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package stream

import (
	"strings"

	"github.com/jeranaias/studyhall-tui/internal/provider"
)

// =============================================================================
// EVENTS
// =============================================================================

// EventKind classifies one stream event.
type EventKind int

const (
	// EventDelta carries an incremental text fragment.
	EventDelta EventKind = iota
	// EventDone marks successful completion of the stream.
	EventDone
	// EventError marks stream failure. The accumulated text so far remains
	// valid as partial content.
	EventError
)

// Event is one element of the typed stream sequence a reducer consumes.
type Event struct {
	Kind EventKind
	Text string // for EventDelta
	Err  error  // for EventError
}

// Delta builds a delta event.
func Delta(text string) Event {
	return Event{Kind: EventDelta, Text: text}
}

// Done builds a done event.
func Done() Event {
	return Event{Kind: EventDone}
}

// Error builds an error event.
func Error(err error) Event {
	return Event{Kind: EventError, Err: err}
}

// FromFrame converts a provider frame into a stream event. Malformed frames
// convert to a zero-value event with ok=false and must be skipped.
func FromFrame(frame provider.Frame) (Event, bool) {
	switch frame.Kind {
	case provider.FrameDelta:
		return Delta(frame.Text), true
	case provider.FrameDone:
		return Done(), true
	default:
		return Event{}, false
	}
}

// =============================================================================
// ACCUMULATOR
// =============================================================================

// PublishFunc receives the full accumulated text after every change.
type PublishFunc func(full string)

// Accumulator owns the growing text buffer for one in-flight request.
//
// Not safe for concurrent use; a request's frames are applied in arrival
// order from a single goroutine.
type Accumulator struct {
	// PERFORMANCE: strings.Builder avoids quadratic append cost
	buf     strings.Builder
	closed  bool
	failed  bool
	err     error
	publish PublishFunc
}

// NewAccumulator creates an accumulator that republishes to publish after
// every applied delta and once on completion. publish may be nil.
func NewAccumulator(publish PublishFunc) *Accumulator {
	return &Accumulator{publish: publish}
}

// Apply folds one event into the buffer.
//
// Events after close are dropped: a server that keeps sending after [DONE]
// must not reopen or grow the buffer.
func (a *Accumulator) Apply(ev Event) {
	if a.closed {
		return
	}

	switch ev.Kind {
	case EventDelta:
		a.buf.WriteString(ev.Text)
		a.republish()
	case EventDone:
		a.closed = true
		// Exactly one final republish so the owner sees the authoritative
		// complete text.
		a.republish()
	case EventError:
		a.closed = true
		a.failed = true
		a.err = ev.Err
	}
}

// ApplyFrame folds one provider frame into the buffer.
func (a *Accumulator) ApplyFrame(frame provider.Frame) {
	if ev, ok := FromFrame(frame); ok {
		a.Apply(ev)
	}
}

// Text returns the accumulated text so far.
func (a *Accumulator) Text() string {
	return a.buf.String()
}

// Closed returns true once the stream has finished or failed.
func (a *Accumulator) Closed() bool {
	return a.closed
}

// Failed returns true if the stream ended with an error.
func (a *Accumulator) Failed() bool {
	return a.failed
}

// Err returns the stream error, if any. The text buffer still holds the
// partial content received before the failure.
func (a *Accumulator) Err() error {
	return a.err
}

func (a *Accumulator) republish() {
	if a.publish != nil {
		a.publish(a.buf.String())
	}
}
