package config

import "time"

// Default configuration values.
const (
	// Adapters
	DefaultAdapter       = "gemini"
	FallbackAdapter      = "ollama"
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultMaxTokens     = 4096
	DefaultTemperature   = 0.5

	// Retry settings
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultHTTPTimeout = 120 * time.Second

	DefaultCircuitThreshold = 5
	DefaultCircuitReset     = 30 * time.Second

	// Rendering
	DefaultRefreshRate = 10

	// Conversation context
	DefaultHistorySize      = 10
	DefaultSummaryExchanges = 3
	DefaultUserCap          = 200
	DefaultAssistantCap     = 300
)
