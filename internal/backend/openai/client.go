// Package openai implements the hosted-API completion backend via the
// OpenAI chat completions interface.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	api "github.com/sashabaranov/go-openai"

	"snapdocs/internal/config"
	"snapdocs/internal/domain"
)

// Name is the backend key used in chain order and prompt templates.
const Name = "openai"

const defaultModel = "gpt-4"

// Client implements port.CompletionBackend against the hosted chat API. A
// custom base URL points it at any OpenAI-compatible server.
type Client struct {
	model string
	inner *api.Client
}

// NewClient creates a hosted-API client from configuration.
func NewClient(cfg *config.OpenAIConfig) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	transportCfg := api.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		transportCfg.BaseURL = cfg.BaseURL
	}
	transportCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &Client{
		model: model,
		inner: api.NewClientWithConfig(transportCfg),
	}
}

// Name returns the backend key.
func (c *Client) Name() string { return Name }

// Generate runs one chat completion and returns the raw assistant text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.inner.CreateChatCompletion(ctx, api.ChatCompletionRequest{
		Model: c.model,
		Messages: []api.ChatCompletionMessage{
			{Role: api.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("calling openai API: %w (%w)", err, domain.ErrBackendUnavailable)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices: %w", domain.ErrMalformedOutput)
	}
	return resp.Choices[0].Message.Content, nil
}
