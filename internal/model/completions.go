// Package model provides the chat-completion client.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/scout-ai/scout/internal/errors"
)

// CompletionConfig configures the completion client.
type CompletionConfig struct {
	APIKey  string
	BaseURL string // Default: https://api.openai.com/v1
	Model   string
	Timeout time.Duration
}

// DefaultCompletionConfig returns default configuration.
func DefaultCompletionConfig(apiKey, modelName string) *CompletionConfig {
	return &CompletionConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Model:   modelName,
		Timeout: 120 * time.Second,
	}
}

// CompletionClient performs stateless single-turn chat completions.
type CompletionClient struct {
	cfg    *CompletionConfig
	client *http.Client
	policy *apperrors.Policy
}

// NewCompletionClient creates a new completion client.
func NewCompletionClient(cfg *CompletionConfig) *CompletionClient {
	if cfg == nil {
		return nil
	}
	return &CompletionClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		policy: apperrors.SlowPolicy(),
	}
}

// SetRetryPolicy overrides the default backoff policy. Used by tests.
func (c *CompletionClient) SetRetryPolicy(p *apperrors.Policy) {
	c.policy = p
}

// Complete sends a single user prompt and returns the model's text.
func (c *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c == nil {
		return "", apperrors.Permanent(apperrors.CodeModelUnavailable, "completion client not initialized")
	}

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	return apperrors.DoWithResult(ctx, c.policy, func() (string, error) {
		return c.complete(ctx, jsonBody)
	})
}

func (c *CompletionClient) complete(ctx context.Context, jsonBody []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeModelUnavailable, "failed to create request", apperrors.CategoryPermanent)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeModelUnavailable, "request failed", apperrors.CategoryTemporary)
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeModelUnavailable, "failed to read response", apperrors.CategoryTemporary)
	}

	if err := classifyStatus(resp.StatusCode, respBody); err != nil {
		return "", err
	}

	var parsed completionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeModelParseError, "failed to parse response", apperrors.CategoryPermanent)
	}

	if len(parsed.Choices) == 0 {
		return "", apperrors.Temporary(apperrors.CodeModelInvalidResponse, "no choices in response")
	}

	return parsed.Choices[0].Message.Content, nil
}

// classifyStatus maps an HTTP status to a typed error, or nil for 200.
func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimit(apperrors.CodeModelRateLimit,
			fmt.Sprintf("rate limited (status %d): %s", status, string(body)), 2*time.Second)
	case status >= 500:
		return apperrors.Temporary(apperrors.CodeModelUnavailable,
			fmt.Sprintf("API error (status %d): %s", status, string(body)))
	default:
		return apperrors.Permanent(apperrors.CodeModelUnavailable,
			fmt.Sprintf("API error (status %d): %s", status, string(body)))
	}
}

type completionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
