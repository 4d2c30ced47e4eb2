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

type openAIClient struct {
	apiKey string
	model  string
	base   string
	client *http.Client
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("OpenAI (%s)", c.model)
}

func (c *openAIClient) Complete(ctx context.Context, promptContext string) (string, error) {
	return complete(ctx, c, promptContext)
}

func (c *openAIClient) Analyze(ctx context.Context, sourceText string) (string, error) {
	return analyze(ctx, c, sourceText)
}

func (c *openAIClient) Tags(ctx context.Context, entry string) ([]string, error) {
	return tags(ctx, c, entry)
}

func (c *openAIClient) Profile(ctx context.Context, entries []string, tagList []string) (string, error) {
	return profile(ctx, c, entries, tagList)
}

func (c *openAIClient) generate(ctx context.Context, system, prompt string) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.9,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.base)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
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
		return "", fmt.Errorf("openai API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai API returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
