// Package ollama implements the local-daemon completion backend.
package ollama

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
const Name = "ollama"

const (
	defaultHost  = "http://localhost:11434"
	defaultModel = "llama2"
)

// Client implements port.CompletionBackend against the Ollama HTTP API.
type Client struct {
	host   string
	model  string
	client *http.Client
}

// NewClient creates an Ollama client from configuration.
func NewClient(cfg *config.OllamaConfig) *Client {
	return newClient(cfg, cfg.Host)
}

// NewClientWithHost creates a client pointing at a custom daemon address (for testing).
func NewClientWithHost(cfg *config.OllamaConfig, host string) *Client {
	return newClient(cfg, host)
}

func newClient(cfg *config.OllamaConfig, host string) *Client {
	if host == "" {
		host = defaultHost
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		host:   host,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the backend key.
func (c *Client) Name() string { return Name }

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate sends the prompt to the daemon's generate endpoint and returns the
// raw model text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": 0.1,
			"top_p":       0.9,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ollama daemon: %w (%w)", err, domain.ErrBackendUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %v: %w", err, domain.ErrMalformedOutput)
	}
	return parsed.Response, nil
}

// Ping probes the daemon's tag listing, the cheapest availability check the
// API offers. Used by readiness and the backend meta endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama daemon not reachable: %w (%w)", err, domain.ErrBackendUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama daemon unhealthy (status %d): %w", resp.StatusCode, domain.ErrBackendUnavailable)
	}
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
