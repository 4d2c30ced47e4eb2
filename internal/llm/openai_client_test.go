package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "gpt-test" {
			t.Fatalf("unexpected model: %s", payload.Model)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" || payload.Messages[1].Role != "user" {
			t.Fatalf("unexpected messages: %+v", payload.Messages)
		}
		if !strings.Contains(payload.Messages[1].Content, "so i stayed home") {
			t.Fatalf("user message missing entry: %s", payload.Messages[1].Content)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Because Nobody Asked.  "}}]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "sk-test", model: "gpt-test", base: server.URL + "/v1", client: server.Client()}
	got, err := client.Complete(context.Background(), "so i stayed home")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if got != "because nobody asked" {
		t.Fatalf("unexpected whisper: %q", got)
	}
}

func TestOpenAIClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "k", model: "m", base: server.URL, client: server.Client()}
	if _, err := client.Tags(context.Background(), "entry"); err == nil {
		t.Fatal("expected error when no choices are returned")
	}
}
