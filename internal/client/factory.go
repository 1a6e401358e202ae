package client

import (
	"context"

	"scribe/internal/config"
	"scribe/internal/logging"
)

// NewAdapters builds every adapter the configuration has credentials for.
// Adapters that cannot be created are skipped with a warning; the gateway
// falls back among the ones that remain.
func NewAdapters(ctx context.Context, cfg *config.Config) []Adapter {
	retry := DefaultRetryConfig()
	retry.MaxRetries = cfg.API.Retry.MaxRetries
	if cfg.API.Retry.RetryDelay > 0 {
		retry.RetryDelay = cfg.API.Retry.RetryDelay
	}

	var adapters []Adapter
	add := func(a Adapter, err error, name string) {
		if err != nil {
			logging.Warn("adapter unavailable", "adapter", name, "error", err)
			return
		}
		adapters = append(adapters, a)
	}

	if cfg.API.GeminiKey != "" {
		a, err := NewGeminiAdapter(ctx, GeminiConfig{
			APIKey: cfg.API.GeminiKey,
			Model:  cfg.Adapter("gemini").ModelID,
			Retry:  retry,
		})
		add(a, err, "gemini")
	} else {
		logging.Debug("gemini adapter skipped: no API key")
	}

	if cfg.API.AnthropicKey != "" {
		a, err := NewAnthropicAdapter(AnthropicConfig{
			APIKey:      cfg.API.AnthropicKey,
			BaseURL:     cfg.API.AnthropicBaseURL,
			Model:       cfg.Adapter("anthropic").ModelID,
			HTTPTimeout: cfg.API.Retry.HTTPTimeout,
			Retry:       retry,
		})
		add(a, err, "anthropic")
	} else {
		logging.Debug("anthropic adapter skipped: no API key")
	}

	// Ollama needs no credentials; it is always registered as the
	// last-resort backend.
	a, err := NewOllamaAdapter(OllamaConfig{
		BaseURL:     cfg.API.OllamaBaseURL,
		APIKey:      cfg.API.OllamaKey,
		Model:       cfg.Adapter("ollama").ModelID,
		HTTPTimeout: cfg.API.Retry.HTTPTimeout,
		Retry:       retry,
	})
	add(a, err, "ollama")

	return adapters
}
