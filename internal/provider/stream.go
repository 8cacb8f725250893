// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// streamReadBufferSize is the bufio buffer for streaming response bodies.
const streamReadBufferSize = 4 * 1024

// StreamCallback is called for each frame decoded from the stream.
type StreamCallback func(frame Frame)

// StreamError is a streaming failure that preserves any partial content
// received before the error.
type StreamError struct {
	Partial string
	Err     error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.Partial != "" {
		return fmt.Sprintf("stream error (partial content received: %d chars): %v", len(e.Partial), e.Err)
	}
	return fmt.Sprintf("stream error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// =============================================================================
// SSE READER
// =============================================================================

// SSEReader decodes stream frames from an io.Reader. It reads whole lines
// through a buffered reader and hands them to a FrameParser, so line
// boundaries never depend on how the transport chunks the body.
type SSEReader struct {
	r      *bufio.Reader
	parser *FrameParser
	queue  []Frame
	eof    bool
}

// NewSSEReader creates a reader for one event stream.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{
		r:      bufio.NewReaderSize(r, streamReadBufferSize),
		parser: NewFrameParser(),
	}
}

// ReadFrame returns the next decoded frame. After the [DONE] sentinel or the
// end of the underlying reader it returns io.EOF; an unterminated tail line
// at end of input is flushed as a final frame first.
func (s *SSEReader) ReadFrame() (Frame, error) {
	for {
		if len(s.queue) > 0 {
			frame := s.queue[0]
			s.queue = s.queue[1:]
			return frame, nil
		}
		if s.eof || s.parser.Done() {
			return Frame{}, io.EOF
		}

		line, err := s.r.ReadString('\n')
		if len(line) > 0 {
			s.queue = s.parser.Feed(line)
		}
		if err == io.EOF {
			s.eof = true
			s.queue = append(s.queue, s.parser.Close()...)
			continue
		}
		if err != nil {
			return Frame{}, err
		}
	}
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChatStream performs a streaming completion request. The callback receives
// each delta and the final done frame in arrival order.
//
// Connection-level failures before the first delta are retried with backoff;
// once content has flowed, a mid-stream failure is returned as a StreamError
// carrying the partial content. The response body is released on every exit
// path.
func (c *Client) ChatStream(ctx context.Context, messages []ChatMessage, callback StreamCallback) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	reqBody := CompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	}

	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.calculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.openStream(ctx, reqBody)
		if err != nil {
			if c.isRetryable(err) {
				lastErr = err
				continue
			}
			return err
		}

		err = c.consumeStream(ctx, resp.Body, callback)
		resp.Body.Close()

		if err != nil {
			var serr *StreamError
			if errors.As(err, &serr) && serr.Partial == "" && c.isRetryable(serr.Err) {
				// Nothing delivered yet; safe to retry the whole request.
				lastErr = serr.Err
				continue
			}
			return err
		}
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("max retries exceeded: %w", lastErr)
	}
	return errors.New("max retries exceeded")
}

// ChatStreamAccumulate performs a streaming chat and returns the full
// response text at the end. Partial content is returned alongside the error
// when the stream fails midway.
func (c *Client) ChatStreamAccumulate(ctx context.Context, messages []ChatMessage) (string, error) {
	var accumulated strings.Builder

	err := c.ChatStream(ctx, messages, func(frame Frame) {
		if frame.Kind == FrameDelta {
			accumulated.WriteString(frame.Text)
		}
	})

	if err != nil {
		var serr *StreamError
		if errors.As(err, &serr) && serr.Partial != "" {
			return serr.Partial, err
		}
		return accumulated.String(), err
	}
	return accumulated.String(), nil
}

// openStream issues the streaming HTTP request and validates the status.
// On non-2xx the body is consumed for the error payload and closed; no
// stream processing happens.
func (c *Client) openStream(ctx context.Context, reqBody CompletionRequest) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	requestID := uuid.NewString()[:8]
	c.logRequest(requestID, "/chat/completions")

	start := time.Now()
	resp, err := sharedStreamingClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	c.logResponse(requestID, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		body, _ := readResponse(resp)
		resp.Body.Close()
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}
	return resp, nil
}

// consumeStream decodes the response body frame by frame, invoking the
// callback for each. Returns nil on [DONE] or clean EOF.
func (c *Client) consumeStream(ctx context.Context, body io.Reader, callback StreamCallback) error {
	reader := NewSSEReader(body)
	var delivered strings.Builder

	for {
		select {
		case <-ctx.Done():
			return &StreamError{Partial: delivered.String(), Err: ctx.Err()}
		default:
		}

		frame, err := reader.ReadFrame()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &StreamError{Partial: delivered.String(), Err: err}
		}

		if frame.Kind == FrameDelta {
			delivered.WriteString(frame.Text)
		}
		callback(frame)

		if frame.Kind == FrameDone {
			// Trailing data after [DONE] is drained and dropped.
			io.Copy(io.Discard, body)
			return nil
		}
	}
}
