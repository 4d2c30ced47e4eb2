package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestPickHTTPClientHonorsCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	if got := pickHTTPClient(custom); got != custom {
		t.Fatalf("expected custom client to be returned")
	}
}

func TestPickHTTPClientUsesLongerTimeout(t *testing.T) {
	client := pickHTTPClient(nil)
	if client.Timeout != defaultLLMHTTPTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultLLMHTTPTimeout, client.Timeout)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "http://ollama.test:11434/")
	t.Setenv("OLLAMA_MODEL", "")

	client, err := New(Config{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ollama, ok := client.(*ollamaClient)
	if !ok {
		t.Fatalf("expected ollama client, got %T", client)
	}
	if ollama.host != "http://ollama.test:11434" {
		t.Fatalf("unexpected host: %s", ollama.host)
	}
	if ollama.model != defaultOllamaModel {
		t.Fatalf("unexpected model: %s", ollama.model)
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "")
	client, err = New(Config{Model: "gpt-test"})
	if err != nil {
		t.Fatalf("new openai: %v", err)
	}
	openai, ok := client.(*openAIClient)
	if !ok {
		t.Fatalf("expected openai client, got %T", client)
	}
	if openai.model != "gpt-test" || openai.base != defaultOpenAIBase {
		t.Fatalf("unexpected openai config: %+v", openai)
	}
}

func TestNewDisabledAndUnknown(t *testing.T) {
	if _, err := New(Config{Provider: ProviderNone}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if _, err := New(Config{Provider: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := New(Config{Provider: ProviderOpenAI}); err == nil {
		t.Fatal("expected error without api key")
	}
}
