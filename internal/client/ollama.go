package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"scribe/internal/logging"
)

// OllamaConfig holds configuration for the Ollama adapter.
type OllamaConfig struct {
	BaseURL     string        // Default: "http://localhost:11434"
	APIKey      string        // Optional, for remote Ollama servers with auth
	Model       string        // e.g., "llama3.2", "qwen2.5-coder"
	HTTPTimeout time.Duration // HTTP request timeout (default: 120s)
	Retry       RetryConfig
}

// OllamaAdapter invokes local or remote models through the Ollama API.
type OllamaAdapter struct {
	client *api.Client
	config OllamaConfig
}

// authTransport adds Authorization header to HTTP requests.
type authTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(reqClone)
}

// NewOllamaAdapter creates an Ollama adapter.
func NewOllamaAdapter(config OllamaConfig) (*OllamaAdapter, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = 120 * time.Second
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}

	if baseURL.Scheme == "http" {
		host := baseURL.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			logging.Warn("Ollama connection uses unencrypted HTTP to remote host",
				"host", host,
				"recommendation", "use HTTPS for remote Ollama servers")
		}
	}

	httpClient := &http.Client{Timeout: config.HTTPTimeout}
	if config.APIKey != "" {
		httpClient.Transport = &authTransport{
			base:   http.DefaultTransport,
			apiKey: config.APIKey,
		}
	}

	return &OllamaAdapter{
		client: api.NewClient(baseURL, httpClient),
		config: config,
	}, nil
}

func (a *OllamaAdapter) Name() string            { return "ollama" }
func (a *OllamaAdapter) Model() string           { return a.config.Model }
func (a *OllamaAdapter) SupportsStreaming() bool { return true }

func (a *OllamaAdapter) chatRequest(prompt string, opts Options, stream bool) *api.ChatRequest {
	req := &api.ChatRequest{
		Model:    a.config.Model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
		Options: map[string]any{
			"num_predict": opts.MaxTokens,
			"temperature": opts.Temperature,
		},
	}
	return req
}

// Invoke implements Adapter. The payload is api.ChatResponse.
func (a *OllamaAdapter) Invoke(ctx context.Context, prompt string, opts Options) (Payload, error) {
	req := a.chatRequest(prompt, opts, false)

	payload, err := withRetry(ctx, a.config.Retry, a.Name(), func() (Payload, error) {
		var final api.ChatResponse
		var content strings.Builder
		err := a.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			content.WriteString(resp.Message.Content)
			final = resp
			return nil
		})
		if err != nil {
			return nil, err
		}
		final.Message.Content = content.String()
		return final, nil
	})
	if err != nil {
		return nil, a.wrapOllamaError(err)
	}
	return payload, nil
}

// InvokeStream implements Adapter.
func (a *OllamaAdapter) InvokeStream(ctx context.Context, prompt string, opts Options) (*Stream, error) {
	req := a.chatRequest(prompt, opts, true)

	chunks := make(chan Chunk, 10)
	go func() {
		defer close(chunks)

		err := a.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			if resp.Message.Content == "" {
				return nil
			}
			if !send(ctx, chunks, Chunk{Text: resp.Message.Content}) {
				return ctx.Err()
			}
			return nil
		})
		if err != nil && ctx.Err() == nil {
			send(ctx, chunks, Chunk{Err: a.wrapOllamaError(err)})
		}
	}()

	return NewStream(chunks), nil
}

// ExtractText implements Adapter.
func (a *OllamaAdapter) ExtractText(p Payload) (string, error) {
	resp, ok := p.(api.ChatResponse)
	if !ok {
		return "", shapeError(a.Name(), "message")
	}
	if resp.Message.Role == "" && resp.Message.Content == "" {
		return "", shapeError(a.Name(), "message.content")
	}
	return resp.Message.Content, nil
}

// Healthcheck verifies that the Ollama server is accessible.
func (a *OllamaAdapter) Healthcheck(ctx context.Context) error {
	if _, err := a.client.List(ctx); err != nil {
		return a.wrapOllamaError(err)
	}
	return nil
}

// wrapOllamaError wraps Ollama errors with user-friendly messages.
func (a *OllamaAdapter) wrapOllamaError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") {
		return fmt.Errorf("Ollama server is not running (start it with: ollama serve): %w", err)
	}

	var statusErr api.StatusError
	if (errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound) ||
		(strings.Contains(errStr, "model") && strings.Contains(errStr, "not found")) {
		return fmt.Errorf("model '%s' is not installed (pull it with: ollama pull %s): %w",
			a.config.Model, a.config.Model, err)
	}

	return err
}
