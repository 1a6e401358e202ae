package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"scribe/internal/logging"
)

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL    string
	HTTPClient *http.Client
	Retry      RetryConfig
}

// GeminiAdapter invokes Gemini models through the genai SDK.
type GeminiAdapter struct {
	client *genai.Client
	model  string
	retry  RetryConfig
}

// NewGeminiAdapter creates a Gemini adapter.
func NewGeminiAdapter(ctx context.Context, cfg GeminiConfig) (*GeminiAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key required (set GEMINI_API_KEY or api.gemini_key)")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	clientConfig := &genai.ClientConfig{
		Backend:    genai.BackendGeminiAPI,
		APIKey:     cfg.APIKey,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	logging.Debug("gemini adapter ready", "model", cfg.Model)

	return &GeminiAdapter{
		client: client,
		model:  cfg.Model,
		retry:  cfg.Retry,
	}, nil
}

func (a *GeminiAdapter) Name() string            { return "gemini" }
func (a *GeminiAdapter) Model() string           { return a.model }
func (a *GeminiAdapter) SupportsStreaming() bool { return true }

func (a *GeminiAdapter) generateConfig(opts Options) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		MaxOutputTokens: opts.MaxTokens,
	}
}

// Invoke implements Adapter. The payload is *genai.GenerateContentResponse.
func (a *GeminiAdapter) Invoke(ctx context.Context, prompt string, opts Options) (Payload, error) {
	return withRetry(ctx, a.retry, a.Name(), func() (Payload, error) {
		resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), a.generateConfig(opts))
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
}

// InvokeStream implements Adapter. The SDK iterator is pumped into the
// chunk channel on a goroutine that exits when ctx is cancelled.
func (a *GeminiAdapter) InvokeStream(ctx context.Context, prompt string, opts Options) (*Stream, error) {
	iter := a.client.Models.GenerateContentStream(ctx, a.model, genai.Text(prompt), a.generateConfig(opts))

	chunks := make(chan Chunk, 10)
	go func() {
		defer close(chunks)

		for resp, err := range iter {
			if err != nil {
				send(ctx, chunks, Chunk{Err: err})
				return
			}
			if resp == nil {
				return
			}
			text := responseText(resp)
			if text == "" {
				continue
			}
			if !send(ctx, chunks, Chunk{Text: text}) {
				return
			}
		}
	}()

	return NewStream(chunks), nil
}

// ExtractText implements Adapter.
func (a *GeminiAdapter) ExtractText(p Payload) (string, error) {
	resp, ok := p.(*genai.GenerateContentResponse)
	if !ok || resp == nil || len(resp.Candidates) == 0 {
		return "", shapeError(a.Name(), "candidates")
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return "", shapeError(a.Name(), "candidates[0].content")
	}
	if len(content.Parts) == 0 {
		return "", shapeError(a.Name(), "candidates[0].content.parts")
	}
	return responseText(resp), nil
}

// responseText joins the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
