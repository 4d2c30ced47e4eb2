package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type ollamaClient struct {
	host   string
	model  string
	client *http.Client
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

func (c *ollamaClient) Complete(ctx context.Context, promptContext string) (string, error) {
	return complete(ctx, c, promptContext)
}

func (c *ollamaClient) Analyze(ctx context.Context, sourceText string) (string, error) {
	return analyze(ctx, c, sourceText)
}

func (c *ollamaClient) Tags(ctx context.Context, entry string) ([]string, error) {
	return tags(ctx, c, entry)
}

func (c *ollamaClient) Profile(ctx context.Context, entries []string, tagList []string) (string, error) {
	return profile(ctx, c, entries, tagList)
}

func (c *ollamaClient) generate(ctx context.Context, system, prompt string) (string, error) {
	payload := map[string]any{
		"model":  c.model,
		"system": system,
		"prompt": prompt,
		"stream": false,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.Response == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}
	return strings.TrimSpace(parsed.Response), nil
}
