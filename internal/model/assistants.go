// Package model provides the assistant-runtime client.
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

// AssistantConfig configures the assistant-runtime client.
type AssistantConfig struct {
	APIKey  string
	BaseURL string // Default: https://api.openai.com/v1
	Timeout time.Duration
}

// DefaultAssistantConfig returns default configuration.
func DefaultAssistantConfig(apiKey string) *AssistantConfig {
	return &AssistantConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.openai.com/v1",
		Timeout: 120 * time.Second,
	}
}

// AssistantClient drives the remote assistant runtime: assistants, threads,
// messages, runs and tool-output submission.
type AssistantClient struct {
	cfg    *AssistantConfig
	client *http.Client
}

// NewAssistantClient creates a new assistant-runtime client.
func NewAssistantClient(cfg *AssistantConfig) *AssistantClient {
	if cfg == nil {
		return nil
	}
	return &AssistantClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateAssistant creates a remote assistant configuration. The tools slice
// carries function declarations plus any server-side tools such as the
// code interpreter.
func (c *AssistantClient) CreateAssistant(ctx context.Context, name, instructions, modelName string, tools []map[string]any) (*Assistant, error) {
	body := map[string]any{
		"name":         name,
		"instructions": instructions,
		"model":        modelName,
		"tools":        tools,
	}
	var out Assistant
	if err := c.do(ctx, http.MethodPost, "/assistants", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrieveAssistant fetches an existing assistant by id.
func (c *AssistantClient) RetrieveAssistant(ctx context.Context, id string) (*Assistant, error) {
	var out Assistant
	if err := c.do(ctx, http.MethodGet, "/assistants/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateThread creates a fresh conversation thread.
func (c *AssistantClient) CreateThread(ctx context.Context) (*Thread, error) {
	var out Thread
	if err := c.do(ctx, http.MethodPost, "/threads", map[string]any{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrieveThread fetches an existing thread by id.
func (c *AssistantClient) RetrieveThread(ctx context.Context, id string) (*Thread, error) {
	var out Thread
	if err := c.do(ctx, http.MethodGet, "/threads/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMessage posts a message onto the thread.
func (c *AssistantClient) CreateMessage(ctx context.Context, threadID, role, content string) (*Message, error) {
	body := map[string]any{
		"role":    role,
		"content": content,
	}
	var out Message
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/messages", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages returns the thread's messages in server-defined order.
func (c *AssistantClient) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	var out struct {
		Data []Message `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/messages", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CreateRun starts a run of the assistant against the thread.
func (c *AssistantClient) CreateRun(ctx context.Context, threadID, assistantID string) (*Run, error) {
	body := map[string]any{
		"assistant_id": assistantID,
	}
	var out Run
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrieveRun polls the run's current state.
func (c *AssistantClient) RetrieveRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var out Run
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitToolOutputs answers a requires_action run with one output per
// fulfilled call id.
func (c *AssistantClient) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (*Run, error) {
	body := map[string]any{
		"tool_outputs": outputs,
	}
	var out Run
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs/"+runID+"/submit_tool_outputs", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one JSON round trip against the runtime.
func (c *AssistantClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeModelUnavailable, "failed to create request", apperrors.CategoryPermanent)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeModelUnavailable, method+" "+path+" failed", apperrors.CategoryTemporary)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeModelUnavailable, "failed to read response", apperrors.CategoryTemporary)
	}

	if err := classifyStatus(resp.StatusCode, respBody); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return apperrors.Wrap(err, apperrors.CodeModelParseError, "failed to parse "+path+" response", apperrors.CategoryPermanent)
		}
	}
	return nil
}
