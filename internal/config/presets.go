package config

// AdapterPresets holds the built-in model block for each adapter.
// Entries in Config.Adapters override individual fields.
var AdapterPresets = map[string]AdapterConfig{
	"gemini": {
		ModelID:     "gemini-2.5-flash",
		MaxTokens:   8192,
		Temperature: Float32(1.0),
	},
	"ollama": {
		ModelID:     "llama3.2",
		MaxTokens:   2048,
		Temperature: Float32(DefaultTemperature),
	},
	"anthropic": {
		ModelID:     "claude-sonnet-4-5",
		MaxTokens:   DefaultMaxTokens,
		Temperature: Float32(DefaultTemperature),
	},
}

// KnownAdapters returns the adapter names that have presets.
func KnownAdapters() []string {
	return []string{"gemini", "ollama", "anthropic"}
}
