package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultOllamaModel = "ministral-3:latest"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOpenAIBase  = "https://api.openai.com/v1"
	defaultOllamaHost  = "http://localhost:11434"

	// Prompts are clipped upstream by promptctx; these are a last guard.
	maxWhisperChars  = 8_000
	maxAnalysisChars = 40_000
	maxTagsChars     = 20_000
	maxProfileChars  = 60_000
)

const defaultLLMHTTPTimeout = 3 * time.Minute

// Provider names a backend.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
	ProviderNone   Provider = "none"
)

// ErrDisabled is returned by New when the provider is "none".
var ErrDisabled = errors.New("language model disabled")

// Config describes how to build an LLM client. Empty fields fall back to
// the environment and then to defaults.
type Config struct {
	Provider   Provider
	Model      string
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// Client generates the diary's shadow texts.
type Client interface {
	// Complete returns a short lowercase whisper continuing the entry.
	Complete(ctx context.Context, promptContext string) (string, error)
	// Analyze returns a typewriter-style critique of a finished entry.
	Analyze(ctx context.Context, sourceText string) (string, error)
	// Tags names the emotions present in an entry.
	Tags(ctx context.Context, entry string) ([]string, error)
	// Profile summarizes patterns across many entries and their tags.
	Profile(ctx context.Context, entries []string, tags []string) (string, error)
	Name() string
}

// New builds a client for cfg.Provider. An empty provider is resolved from
// the environment: OpenAI when OPENAI_API_KEY is set, Ollama otherwise.
func New(cfg Config) (Client, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOllama
		if os.Getenv("OPENAI_API_KEY") != "" {
			provider = ProviderOpenAI
		}
	}
	switch provider {
	case ProviderOllama:
		return NewFromEnv(cfg)
	case ProviderOpenAI:
		return newOpenAIFromEnv(cfg)
	case ProviderNone:
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// NewFromEnv builds an Ollama client, reading OLLAMA_HOST and OLLAMA_MODEL
// for anything cfg leaves empty.
func NewFromEnv(cfg Config) (Client, error) {
	host := cfg.Endpoint
	if host == "" {
		if env := os.Getenv("OLLAMA_HOST"); env != "" {
			host = env
		} else {
			host = defaultOllamaHost
		}
	}
	model := cfg.Model
	if model == "" {
		if env := os.Getenv("OLLAMA_MODEL"); env != "" {
			model = env
		} else {
			model = defaultOllamaModel
		}
	}
	return &ollamaClient{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: pickHTTPClient(cfg.HTTPClient),
	}, nil
}

func newOpenAIFromEnv(cfg Config) (Client, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	base := cfg.Endpoint
	if base == "" {
		if env := os.Getenv("OPENAI_BASE_URL"); env != "" {
			base = env
		} else {
			base = defaultOpenAIBase
		}
	}
	model := cfg.Model
	if model == "" {
		if env := os.Getenv("OPENAI_MODEL"); env != "" {
			model = env
		} else {
			model = defaultOpenAIModel
		}
	}
	return &openAIClient{
		apiKey: key,
		model:  model,
		base:   strings.TrimRight(base, "/"),
		client: pickHTTPClient(cfg.HTTPClient),
	}, nil
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Local models can take well over a minute; callers bound requests with their context.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}

// generator is the single round-trip each backend implements; the shared
// prompt logic below sits on top of it.
type generator interface {
	generate(ctx context.Context, system, prompt string) (string, error)
}

func complete(ctx context.Context, g generator, promptContext string) (string, error) {
	text := clipTail(promptContext, maxWhisperChars)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("entry empty; nothing to continue")
	}
	raw, err := g.generate(ctx, whisperSystem, buildWhisperPrompt(text))
	if err != nil {
		return "", err
	}
	whisper := normalizeWhisper(raw)
	if whisper == "" {
		return "", fmt.Errorf("model returned an empty whisper")
	}
	return whisper, nil
}

func analyze(ctx context.Context, g generator, sourceText string) (string, error) {
	text := clipText(sourceText, maxAnalysisChars)
	if text == "" {
		return "", fmt.Errorf("entry empty; nothing to analyze")
	}
	raw, err := g.generate(ctx, analysisSystem, buildAnalysisPrompt(text))
	if err != nil {
		return "", err
	}
	return normalizeAnalysis(raw), nil
}

func tags(ctx context.Context, g generator, entry string) ([]string, error) {
	text := clipText(entry, maxTagsChars)
	if text == "" {
		return nil, fmt.Errorf("entry empty; nothing to tag")
	}
	raw, err := g.generate(ctx, tagsSystem, buildTagsPrompt(text))
	if err != nil {
		return nil, err
	}
	return parseTags(raw)
}

func profile(ctx context.Context, g generator, entries, tagList []string) (string, error) {
	prompt, ok := buildProfilePrompt(entries, tagList, maxProfileChars)
	if !ok {
		return "", fmt.Errorf("no entries to profile")
	}
	return g.generate(ctx, profileSystem, prompt)
}
