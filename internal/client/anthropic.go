package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scribe/internal/logging"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// AnthropicConfig holds configuration for the Anthropic messages API.
type AnthropicConfig struct {
	APIKey      string
	BaseURL     string // Default: "https://api.anthropic.com"
	Model       string
	HTTPTimeout time.Duration
	Retry       RetryConfig
}

// AnthropicAdapter calls the messages API and delivers complete responses
// only.
type AnthropicAdapter struct {
	config     AnthropicConfig
	httpClient *http.Client
}

// NewAnthropicAdapter creates an Anthropic adapter.
func NewAnthropicAdapter(config AnthropicConfig) (*AnthropicAdapter, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.BaseURL != "" &&
		!strings.HasPrefix(config.BaseURL, "http://") && !strings.HasPrefix(config.BaseURL, "https://") {
		return nil, fmt.Errorf("invalid BaseURL: must start with http:// or https://")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	if config.BaseURL == "" {
		config.BaseURL = defaultAnthropicBaseURL
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 120 * time.Second
	}
	if config.HTTPTimeout < time.Second {
		return nil, fmt.Errorf("HTTPTimeout too short: %v (minimum: 1s)", config.HTTPTimeout)
	}

	return &AnthropicAdapter{
		config:     config,
		httpClient: &http.Client{Timeout: config.HTTPTimeout},
	}, nil
}

func (a *AnthropicAdapter) Name() string            { return "anthropic" }
func (a *AnthropicAdapter) Model() string           { return a.config.Model }
func (a *AnthropicAdapter) SupportsStreaming() bool { return false }

// Invoke implements Adapter. The payload is the decoded JSON body.
func (a *AnthropicAdapter) Invoke(ctx context.Context, prompt string, opts Options) (Payload, error) {
	body := map[string]any{
		"model":       a.config.Model,
		"max_tokens":  opts.MaxTokens,
		"temperature": opts.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return withRetry(ctx, a.config.Retry, a.Name(), func() (Payload, error) {
		return a.doRequest(ctx, jsonData)
	})
}

func (a *AnthropicAdapter) doRequest(ctx context.Context, jsonData []byte) (Payload, error) {
	url := strings.TrimSuffix(a.config.BaseURL, "/") + "/v1/messages"
	logging.Debug("anthropic API request", "url", url, "model", a.config.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.config.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logging.Warn("anthropic API error", "status", resp.StatusCode, "body", string(data))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("API error (status %d): %s", resp.StatusCode, string(data)),
		}
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload, nil
}

// InvokeStream implements Adapter.
func (a *AnthropicAdapter) InvokeStream(context.Context, string, Options) (*Stream, error) {
	return nil, ErrStreamingUnsupported
}

// ExtractText implements Adapter. It reads content[0].text.
func (a *AnthropicAdapter) ExtractText(p Payload) (string, error) {
	payload, ok := p.(map[string]any)
	if !ok {
		return "", shapeError(a.Name(), "content")
	}
	content, ok := payload["content"].([]any)
	if !ok || len(content) == 0 {
		return "", shapeError(a.Name(), "content")
	}
	first, ok := content[0].(map[string]any)
	if !ok {
		return "", shapeError(a.Name(), "content[0]")
	}
	text, ok := first["text"].(string)
	if !ok {
		return "", shapeError(a.Name(), "content[0].text")
	}
	return text, nil
}
