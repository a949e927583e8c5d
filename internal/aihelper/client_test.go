package aihelper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roit-learning-service/internal/domain"
)

func TestChatConcatenatesStreamedText(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if key := r.Header.Get("x-goog-api-key"); key != "secret" {
			t.Errorf("expected api key header, got %q", key)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"candidates":[{"content":{"parts":[{"text":"Newton's "}]}}]}`+"\n\n")
		fmt.Fprint(w, "data: not-json\n\n")
		fmt.Fprint(w, `data: {"candidates":[{"content":{"parts":[{"text":"second law"}]}}]}`+"\n\n")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", "", srv.Client())
	reply, err := client.Chat(context.Background(), []domain.ChatMessage{
		{Role: domain.ChatRoleUser, Content: "What is F = ma?"},
		{Role: "assistant", Content: "earlier answer"},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Newton's second law" {
		t.Fatalf("unexpected reply %q", reply)
	}

	if len(got.Contents) != 4 {
		t.Fatalf("expected system, greeting and two turns, got %d", len(got.Contents))
	}
	if got.Contents[0].Role != "user" || got.Contents[0].Parts[0].Text != DefaultSystemPrompt {
		t.Fatalf("system context not prepended: %+v", got.Contents[0])
	}
	if got.Contents[1].Role != "model" {
		t.Fatalf("greeting should be a model turn, got %q", got.Contents[1].Role)
	}
	if got.Contents[3].Role != "model" {
		t.Fatalf("non-user roles map to model, got %q", got.Contents[3].Role)
	}
}

func TestChatFallsBackWhenStreamIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"candidates\":[]}\n\n")
	}))
	defer srv.Close()

	reply, err := NewClient(srv.URL, "", "", srv.Client()).Chat(context.Background(), nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != FallbackResponse {
		t.Fatalf("expected fallback, got %q", reply)
	}
}

func TestChatReportsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", "", srv.Client()).Chat(context.Background(), []domain.ChatMessage{{Role: domain.ChatRoleUser, Content: "hi"}})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestCollectSkipsNonDataLines(t *testing.T) {
	stream := strings.Join([]string{
		": keep-alive",
		"event: message",
		`data: {"candidates":[{"content":{"parts":[{"text":"a"}]}}]}`,
		`data: {"candidates":[{"content":{"parts":[]}}]}`,
		`data: {"candidates":[{"content":{"parts":[{"text":"b"}]}}]}`,
	}, "\n")
	text, err := collect(strings.NewReader(stream))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if text != "ab" {
		t.Fatalf("expected ab, got %q", text)
	}
}
