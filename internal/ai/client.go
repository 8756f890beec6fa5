// Package ai wraps an OpenAI-compatible chat-completions endpoint behind the
// single typed capability the workflows use. The adapter normalizes the
// provider response here; workflow code never probes response shapes.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clauseforge/internal/apperrors"
	"clauseforge/internal/config"
)

// Message is one chat turn sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is the normalized result of one completion call.
type Completion struct {
	Text       string
	TokensUsed int
	ModelUsed  string
}

// TextCompleter is the AI-text capability the workflows depend on.
type TextCompleter interface {
	Complete(ctx context.Context, messages []Message, temperature float64) (*Completion, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg *config.AIConfig) *Client {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		timeout = 60 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Complete sends a chat completion request and returns the normalized result.
// Every failure path is an apperrors.ProviderError.
func (c *Client) Complete(ctx context.Context, messages []Message, temperature float64) (*Completion, error) {
	body := map[string]any{
		"model":    c.model,
		"messages": messages,
	}
	if temperature > 0 {
		body["temperature"] = temperature
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, apperrors.Provider("ai", fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.Provider("ai", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Provider("ai", fmt.Errorf("chat completion: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Provider("ai", fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Provider("ai", fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 300)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
		Model string `json:"model"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, apperrors.Provider("ai", fmt.Errorf("decode response: %w", err))
	}
	if len(result.Choices) == 0 {
		return nil, apperrors.Provider("ai", fmt.Errorf("no choices returned"))
	}

	return &Completion{
		Text:       result.Choices[0].Message.Content,
		TokensUsed: result.Usage.TotalTokens,
		ModelUsed:  result.Model,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
