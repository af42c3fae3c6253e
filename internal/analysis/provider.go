// Package analysis turns raw posts into normalized content assessments,
// either through chat-completion providers or a deterministic local
// analyzer when no provider is configured.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Provider is a single AI completion backend.
type Provider interface {
	Name() string
	Configured() bool
	// Complete sends the prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatProvider talks to any OpenAI-compatible chat-completions endpoint.
// Both OpenAI and DeepSeek share this wire format.
type ChatProvider struct {
	name   string
	apiKey string
	url    string
	model  string
	client *http.Client
}

func NewChatProvider(name, apiKey, url, model string, timeout time.Duration) *ChatProvider {
	return &ChatProvider{
		name:   name,
		apiKey: apiKey,
		url:    url,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *ChatProvider) Name() string { return p.name }

func (p *ChatProvider) Configured() bool { return p.apiKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	MaxTokens      int           `json:"max_tokens"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *ChatProvider) Complete(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   500,
		Temperature: 0.2,
	}
	body.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", p.name, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode %s response: %w", p.name, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s returned no choices", p.name)
	}
	return parsed.Choices[0].Message.Content, nil
}
