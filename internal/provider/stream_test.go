// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// sseHandler writes the given lines as an SSE response, flushing after each.
func sseHandler(lines ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for _, line := range lines {
			w.Write([]byte(line + "\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

func TestChatStreamAccumulate(t *testing.T) {
	server := httptest.NewServer(sseHandler(
		`data: {"choices":[{"delta":{"role":"assistant"}}]}`,
		`data: {"choices":[{"delta":{"content":"The mitochondria "}}]}`,
		`data: {"choices":[{"delta":{"content":"is the powerhouse."}}]}`,
		`data: [DONE]`,
	))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.ChatStreamAccumulate(context.Background(), []ChatMessage{NewUserMessage("tell me")})
	if err != nil {
		t.Fatalf("ChatStreamAccumulate: %v", err)
	}
	if got != "The mitochondria is the powerhouse." {
		t.Errorf("accumulated = %q", got)
	}
}

func TestChatStreamMalformedFrameDoesNotAbort(t *testing.T) {
	server := httptest.NewServer(sseHandler(
		`data: {"choices":[{"delta":{"content":"before "}}]}`,
		`data: {broken json`,
		`data: {"choices":[{"delta":{"content":"after"}}]}`,
		`data: [DONE]`,
	))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.ChatStreamAccumulate(context.Background(), []ChatMessage{NewUserMessage("q")})
	if err != nil {
		t.Fatalf("stream aborted on malformed frame: %v", err)
	}
	if got != "before after" {
		t.Errorf("accumulated = %q, want %q", got, "before after")
	}
}

func TestChatStreamDropsTrailingDataAfterDone(t *testing.T) {
	server := httptest.NewServer(sseHandler(
		`data: {"choices":[{"delta":{"content":"kept"}}]}`,
		`data: [DONE]`,
		`data: {"choices":[{"delta":{"content":"dropped"}}]}`,
	))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.ChatStreamAccumulate(context.Background(), []ChatMessage{NewUserMessage("q")})
	if err != nil {
		t.Fatalf("ChatStreamAccumulate: %v", err)
	}
	if got != "kept" {
		t.Errorf("accumulated = %q, want %q", got, "kept")
	}
}

func TestChatStreamHTTPErrorNoProcessing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"message": "quota exhausted"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL).WithMaxRetries(1)
	var frames int
	err := client.ChatStream(context.Background(), []ChatMessage{NewUserMessage("q")}, func(Frame) {
		frames++
	})

	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Status != http.StatusPaymentRequired {
		t.Errorf("err = %v, want ProviderError 402", err)
	}
	if frames != 0 {
		t.Errorf("callback invoked %d times on HTTP error", frames)
	}
}

func TestChatStreamFrameOrder(t *testing.T) {
	server := httptest.NewServer(sseHandler(
		`data: {"choices":[{"delta":{"content":"1"}}]}`,
		`data: {"choices":[{"delta":{"content":"2"}}]}`,
		`data: {"choices":[{"delta":{"content":"3"}}]}`,
		`data: [DONE]`,
	))
	defer server.Close()

	client := newTestClient(server.URL)
	var order []string
	var doneSeen bool
	err := client.ChatStream(context.Background(), []ChatMessage{NewUserMessage("q")}, func(f Frame) {
		switch f.Kind {
		case FrameDelta:
			if doneSeen {
				t.Error("delta after done frame")
			}
			order = append(order, f.Text)
		case FrameDone:
			doneSeen = true
		}
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	if len(order) != 3 || order[0] != "1" || order[1] != "2" || order[2] != "3" {
		t.Errorf("delta order = %v", order)
	}
	if !doneSeen {
		t.Error("done frame never delivered")
	}
}

func TestChatStreamEOFWithoutDone(t *testing.T) {
	// A server that closes cleanly without [DONE] still yields the content.
	server := httptest.NewServer(sseHandler(
		`data: {"choices":[{"delta":{"content":"partial answer"}}]}`,
	))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.ChatStreamAccumulate(context.Background(), []ChatMessage{NewUserMessage("q")})
	if err != nil {
		t.Fatalf("ChatStreamAccumulate: %v", err)
	}
	if got != "partial answer" {
		t.Errorf("accumulated = %q", got)
	}
}
