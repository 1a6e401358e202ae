package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the variables Load reads so tests see file values only.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"SCRIBE_MODEL", "SCRIBE_LOG_LEVEL", "GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OLLAMA_HOST"} {
		t.Setenv(name, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultAdapter, cfg.Model.Default)
	assert.Equal(t, FallbackAdapter, cfg.Model.Fallback)
	assert.Equal(t, 10, cfg.Session.HistorySize)
	assert.Equal(t, 200, cfg.Session.UserCap)
	assert.Equal(t, 300, cfg.Session.AssistantCap)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
model:
  default: anthropic
adapters:
  anthropic:
    max_tokens: 1024
api:
  anthropic_key: ${TEST_SCRIBE_KEY}
  retry:
    max_retries: 5
    retry_delay: 2s
ui:
  refresh_rate: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("TEST_SCRIBE_KEY", "sk-from-env")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SCRIBE_LOG_LEVEL", "")
	t.Setenv("SCRIBE_MODEL", "ollama")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.Model.Default, "env wins over file")
	assert.Equal(t, "sk-from-env", cfg.API.AnthropicKey)
	assert.Equal(t, "http://gpu-box:11434", cfg.API.OllamaBaseURL)
	assert.Equal(t, 5, cfg.API.Retry.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.API.Retry.RetryDelay)
	assert.Equal(t, 20, cfg.UI.RefreshRate)

	ac := cfg.Adapter("anthropic")
	assert.Equal(t, int32(1024), ac.MaxTokens)
	assert.Equal(t, AdapterPresets["anthropic"].ModelID, ac.ModelID)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [unterminated"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty default", func(c *Config) { c.Model.Default = "" }},
		{"zero refresh", func(c *Config) { c.UI.RefreshRate = 0 }},
		{"zero history", func(c *Config) { c.Session.HistorySize = 0 }},
		{"hot temperature", func(c *Config) { c.Adapters["gemini"] = AdapterConfig{Temperature: Float32(3)} }},
		{"negative tokens", func(c *Config) { c.Adapters["ollama"] = AdapterConfig{MaxTokens: -1} }},
		{"negative retries", func(c *Config) { c.API.Retry.MaxRetries = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cfgErr ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestValidateAllowsUnknownDefaultAdapter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.Default = "titan"
	assert.NoError(t, cfg.Validate())
}

func TestAdapterFallsBackToDefaultTokens(t *testing.T) {
	cfg := DefaultConfig()
	ac := cfg.Adapter("unregistered")
	assert.Equal(t, int32(DefaultMaxTokens), ac.MaxTokens)
	assert.Empty(t, ac.ModelID)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Model.Default = "anthropic"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	clearEnv(t)
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", loaded.Model.Default)
}

func TestExplicitZeroTemperatureIsKept(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
adapters:
  gemini:
    temperature: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.NotNil(t, cfg.Adapter("gemini").Temperature)
	assert.Equal(t, float32(0), *cfg.Adapter("gemini").Temperature)
	assert.Equal(t, float32(DefaultTemperature), *cfg.Adapter("ollama").Temperature, "unset temperature inherits the preset")
}

func TestAdapterReturnsIndependentTemperature(t *testing.T) {
	cfg := DefaultConfig()
	ac := cfg.Adapter("gemini")
	*ac.Temperature = 1.9
	assert.Equal(t, float32(1), *cfg.Adapter("gemini").Temperature)
}

func TestSaveSkipsKeysFromEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  gemini_key: ${TEST_SCRIBE_GEMINI}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("TEST_SCRIBE_GEMINI", "gm-secret")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gm-secret", cfg.API.GeminiKey)
	assert.Equal(t, "sk-ant-secret", cfg.API.AnthropicKey)

	out := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.Save(out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-ant-secret")
	assert.NotContains(t, string(data), "gm-secret")
	assert.Contains(t, string(data), "${TEST_SCRIBE_GEMINI}")
	assert.Equal(t, "sk-ant-secret", cfg.API.AnthropicKey, "Save leaves the loaded config unchanged")
}

func TestSaveKeepsLiteralKeys(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.OllamaKey = "literal-token"
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "literal-token")
}

func TestKnownAdaptersHavePresets(t *testing.T) {
	for _, name := range KnownAdapters() {
		assert.Contains(t, AdapterPresets, name)
	}
	assert.Contains(t, KnownAdapters(), DefaultAdapter)
	assert.Contains(t, KnownAdapters(), FallbackAdapter)
}
