package config

import "time"

// Config is the process-wide configuration. It is built once at startup
// and passed by reference to the session, the gateway and the renderer.
type Config struct {
	Model    ModelConfig              `yaml:"model"`
	Adapters map[string]AdapterConfig `yaml:"adapters,omitempty"`
	API      APIConfig                `yaml:"api"`
	UI       UIConfig                 `yaml:"ui"`
	Session  SessionConfig            `yaml:"session"`
	Logging  LoggingConfig            `yaml:"logging"`

	// Runtime version information
	Version string `yaml:"-"`

	// persisted maps API key fields not taken literally from the config
	// file to the value Save writes in their place.
	persisted map[string]string
}

// ModelConfig selects which adapter handles invocations.
type ModelConfig struct {
	// Default adapter name: gemini, ollama, anthropic
	Default string `yaml:"default"`
	// Fallback is used when Default is not registered.
	Fallback string `yaml:"fallback"`
}

// AdapterConfig is the per-adapter model block. Zero or nil fields inherit
// the preset; an explicit temperature of 0 is kept.
type AdapterConfig struct {
	ModelID     string   `yaml:"model_id,omitempty"`
	MaxTokens   int32    `yaml:"max_tokens,omitempty"`
	Temperature *float32 `yaml:"temperature,omitempty"`
}

// Float32 returns a pointer to v, for AdapterConfig.Temperature.
func Float32(v float32) *float32 {
	return &v
}

// APIConfig holds backend credentials and endpoints.
type APIConfig struct {
	GeminiKey string `yaml:"gemini_key,omitempty"`

	AnthropicKey     string `yaml:"anthropic_key,omitempty"`
	AnthropicBaseURL string `yaml:"anthropic_base_url,omitempty"`

	// Ollama server URL (default: http://localhost:11434)
	OllamaBaseURL string `yaml:"ollama_base_url,omitempty"`
	OllamaKey     string `yaml:"ollama_key,omitempty"` // Optional, for remote servers with auth

	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig holds retry settings for backend calls.
type RetryConfig struct {
	MaxRetries  int           `yaml:"max_retries"`
	RetryDelay  time.Duration `yaml:"retry_delay"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Consecutive failures before an adapter is skipped, 0 = never
	CircuitThreshold int `yaml:"circuit_threshold"`
	// How long a failing adapter is skipped before one trial call
	CircuitReset time.Duration `yaml:"circuit_reset"`
}

// UIConfig holds rendering settings.
type UIConfig struct {
	// Glamour style: auto, dark, light, notty
	Theme string `yaml:"theme"`
	// Word wrap for rendered markdown, 0 = terminal width
	WordWrap int `yaml:"word_wrap"`
	// Live re-renders per second while streaming
	RefreshRate int `yaml:"refresh_rate"`
	// Copy the first fenced code block of a reply to the clipboard
	CopyCodeBlocks bool `yaml:"copy_code_blocks"`
	// Show command suggestions for free text
	ShowSuggestions bool `yaml:"show_suggestions"`
	// Syntax highlighting style for code previews
	CodeStyle string `yaml:"code_style"`
}

// SessionConfig holds conversation context limits.
type SessionConfig struct {
	HistorySize      int `yaml:"history_size"`
	SummaryExchanges int `yaml:"summary_exchanges"`
	UserCap          int `yaml:"user_cap"`
	AssistantCap     int `yaml:"assistant_cap"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// Write logs to scribe.log in the config directory
	File bool `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Default:  DefaultAdapter,
			Fallback: FallbackAdapter,
		},
		Adapters: map[string]AdapterConfig{},
		API: APIConfig{
			OllamaBaseURL: DefaultOllamaBaseURL,
			Retry: RetryConfig{
				MaxRetries:  DefaultMaxRetries,
				RetryDelay:  DefaultRetryDelay,
				HTTPTimeout: DefaultHTTPTimeout,

				CircuitThreshold: DefaultCircuitThreshold,
				CircuitReset:     DefaultCircuitReset,
			},
		},
		UI: UIConfig{
			Theme:           "auto",
			RefreshRate:     DefaultRefreshRate,
			CopyCodeBlocks:  true,
			ShowSuggestions: true,
			CodeStyle:       "monokai",
		},
		Session: SessionConfig{
			HistorySize:      DefaultHistorySize,
			SummaryExchanges: DefaultSummaryExchanges,
			UserCap:          DefaultUserCap,
			AssistantCap:     DefaultAssistantCap,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Adapter returns the effective model block for an adapter: the preset
// with any configured overrides applied.
func (c *Config) Adapter(name string) AdapterConfig {
	ac := AdapterPresets[name]
	if override, ok := c.Adapters[name]; ok {
		if override.ModelID != "" {
			ac.ModelID = override.ModelID
		}
		if override.MaxTokens != 0 {
			ac.MaxTokens = override.MaxTokens
		}
		if override.Temperature != nil {
			ac.Temperature = override.Temperature
		}
	}
	if ac.MaxTokens == 0 {
		ac.MaxTokens = DefaultMaxTokens
	}
	if ac.Temperature == nil {
		ac.Temperature = Float32(DefaultTemperature)
	} else {
		ac.Temperature = Float32(*ac.Temperature)
	}
	return ac
}
