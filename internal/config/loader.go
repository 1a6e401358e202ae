package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"scribe/internal/fileutil"
)

// Load loads configuration from path (or the default location when path is
// empty) and applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = getConfigPath()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	loadFromEnv(cfg)

	return cfg, nil
}

// getConfigPath returns the path to the config file.
func getConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "scribe", "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	if runtime.GOOS == "darwin" {
		appSupport := filepath.Join(homeDir, "Library", "Application Support", "scribe", "config.yaml")
		if _, err := os.Stat(appSupport); err == nil {
			return appSupport
		}
	}

	return filepath.Join(homeDir, ".config", "scribe", "config.yaml")
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Expand environment variables in the config file
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Keep ${VAR} references to keys so Save does not write their values.
	var raw Config
	if err := yaml.Unmarshal(data, &raw); err == nil {
		rawKeys := raw.apiKeys()
		for name, value := range cfg.apiKeys() {
			if *rawKeys[name] != *value {
				cfg.persist(name, *rawKeys[name])
			}
		}
	}

	return nil
}

// apiKeys returns the API key fields by their yaml names.
func (c *Config) apiKeys() map[string]*string {
	return map[string]*string{
		"gemini_key":    &c.API.GeminiKey,
		"anthropic_key": &c.API.AnthropicKey,
		"ollama_key":    &c.API.OllamaKey,
	}
}

// persist records what Save writes for the named key. The first record
// wins: it is the value found in the config file.
func (c *Config) persist(name, value string) {
	if c.persisted == nil {
		c.persisted = make(map[string]string)
	}
	if _, ok := c.persisted[name]; !ok {
		c.persisted[name] = value
	}
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.persist("gemini_key", cfg.API.GeminiKey)
		cfg.API.GeminiKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		cfg.persist("anthropic_key", cfg.API.AnthropicKey)
		cfg.API.AnthropicKey = key
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.API.OllamaBaseURL = host
	}
	if model := os.Getenv("SCRIBE_MODEL"); model != "" {
		cfg.Model.Default = model
	}
	if level := os.Getenv("SCRIBE_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
}

// ConfigError is returned by Validate for settings that prevent startup.
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

// Validate checks the settings the session cannot run without. An unknown
// default adapter is not an error: the gateway falls back.
func (c *Config) Validate() error {
	if c.Model.Default == "" {
		return ConfigError("model.default must name an adapter")
	}
	for name, ac := range c.Adapters {
		if ac.MaxTokens < 0 {
			return ConfigError(fmt.Sprintf("adapters.%s.max_tokens must be positive, got %d", name, ac.MaxTokens))
		}
		if t := ac.Temperature; t != nil && (*t < 0 || *t > 2) {
			return ConfigError(fmt.Sprintf("adapters.%s.temperature must be within [0, 2], got %v", name, *t))
		}
	}
	if c.UI.RefreshRate <= 0 {
		return ConfigError(fmt.Sprintf("ui.refresh_rate must be positive, got %d", c.UI.RefreshRate))
	}
	if c.Session.HistorySize < 1 {
		return ConfigError(fmt.Sprintf("session.history_size must be at least 1, got %d", c.Session.HistorySize))
	}
	if c.Session.SummaryExchanges < 1 || c.Session.UserCap < 1 || c.Session.AssistantCap < 1 {
		return ConfigError("session summary limits must be positive")
	}
	if c.API.Retry.MaxRetries < 0 {
		return ConfigError(fmt.Sprintf("api.retry.max_retries cannot be negative, got %d", c.API.Retry.MaxRetries))
	}
	return nil
}

// GetConfigPath returns the default config file path.
func GetConfigPath() string {
	return getConfigPath()
}

// Dir returns the directory holding the config file (and scribe.log).
func Dir() string {
	p := getConfigPath()
	if p == "" {
		return os.TempDir()
	}
	return filepath.Dir(p)
}

// Save writes the configuration to path, or the default location when empty.
// API keys that came from the environment are not written; keys given as
// ${VAR} in the config file are written back as the reference.
func (c *Config) Save(path string) error {
	if path == "" {
		path = getConfigPath()
	}
	if path == "" {
		return fmt.Errorf("could not determine config path")
	}

	// 0700: the file may hold API keys
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *c
	for name, field := range out.apiKeys() {
		if value, ok := c.persisted[name]; ok {
			*field = value
		}
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileutil.AtomicWrite(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
