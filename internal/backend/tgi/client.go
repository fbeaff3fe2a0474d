// Package tgi implements the local-model completion backend against a
// text-generation-inference style HTTP server.
package tgi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"snapdocs/internal/config"
	"snapdocs/internal/domain"
)

// Name is the backend key used in chain order and prompt templates.
const Name = "tgi"

const (
	defaultURL          = "http://localhost:8080"
	defaultMaxNewTokens = 200
)

// Client implements port.CompletionBackend against a local inference server.
type Client struct {
	url          string
	maxNewTokens int
	client       *http.Client
}

// NewClient creates a TGI client from configuration.
func NewClient(cfg *config.TGIConfig) *Client {
	return newClient(cfg, cfg.URL)
}

// NewClientWithURL creates a client pointing at a custom server (for testing).
func NewClientWithURL(cfg *config.TGIConfig, url string) *Client {
	return newClient(cfg, url)
}

func newClient(cfg *config.TGIConfig, url string) *Client {
	if url == "" {
		url = defaultURL
	}
	maxTokens := cfg.MaxNewTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxNewTokens
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:          url,
		maxNewTokens: maxTokens,
		client:       &http.Client{Timeout: timeout},
	}
}

// Name returns the backend key.
func (c *Client) Name() string { return Name }

type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Generate sends the prompt to the inference server and returns the raw
// generated text. Prompt templates for this backend use the truncated
// preview placeholder because the local model has a tight context window.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxNewTokens:   c.maxNewTokens,
			Temperature:    0.7,
			ReturnFullText: false,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling inference server: %w (%w)", err, domain.ErrBackendUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference server error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %v: %w", err, domain.ErrMalformedOutput)
	}
	return parsed.GeneratedText, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
