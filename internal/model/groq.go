// Package model provides a Groq-compatible chat completions client.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/workhub-ai/workhub-agent/internal/errors"
)

// GroqConfig configures the Groq client. Any endpoint speaking the
// OpenAI-style chat completions API works here.
type GroqConfig struct {
	APIKey  string
	BaseURL string // Default: https://api.groq.com/openai/v1
	Model   string // e.g., "llama-3.3-70b-versatile"
	Timeout time.Duration
}

// DefaultGroqConfig returns default configuration.
func DefaultGroqConfig(apiKey string) *GroqConfig {
	return &GroqConfig{
		APIKey:  apiKey,
		BaseURL: "https://api.groq.com/openai/v1",
		Model:   "llama-3.3-70b-versatile",
		Timeout: 15 * time.Second,
	}
}

// GroqClient implements Model using a chat completions endpoint.
type GroqClient struct {
	cfg    *GroqConfig
	client *http.Client
}

// NewGroqClient creates a new client.
func NewGroqClient(cfg *GroqConfig) *GroqClient {
	if cfg == nil {
		return nil
	}
	return &GroqClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Generate sends a prompt and returns the completion. Exactly one attempt
// is made: every failure has a deterministic local fallback downstream, so
// retrying here would only add latency.
func (c *GroqClient) Generate(ctx context.Context, req *Request) (*Response, error) {
	if !c.IsAvailable() {
		return nil, errors.ModelUnavailable(nil)
	}

	messages := []map[string]string{}
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	body := map[string]any{
		"model":    c.cfg.Model,
		"messages": messages,
	}
	if req.Temperature > 0 {
		body["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "MODEL_ENCODE", "failed to marshal request", errors.CategoryPermanent)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, errors.ModelUnavailable(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, errors.ModelTimeout(err)
		}
		return nil, errors.ModelUnavailable(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ModelUnavailable(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.ModelStatus(fmt.Errorf("status %d: %s", resp.StatusCode, truncate(respBody, 200)))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, errors.MalformedReply(err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, errors.MalformedReply(fmt.Errorf("no choices in response"))
	}

	return &Response{
		Text:       chatResp.Choices[0].Message.Content,
		TokensUsed: chatResp.Usage.TotalTokens,
		Model:      chatResp.Model,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// IsAvailable checks if the client is configured.
func (c *GroqClient) IsAvailable() bool {
	return c != nil && c.cfg != nil && c.cfg.APIKey != ""
}

// Name returns the model name.
func (c *GroqClient) Name() string {
	if c != nil && c.cfg != nil {
		return c.cfg.Model
	}
	return "groq"
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	var t timeout
	return stderrors.As(err, &t) && t.Timeout()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// ============================================================
// Chat Completions API Types
// ============================================================

type chatCompletionResponse struct {
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
