package llm

// ProviderConfig holds the settings needed to construct a provider.
type ProviderConfig struct {
	// Provider selects the implementation: "ollama", "openai", or "mock".
	Provider string `mapstructure:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "llava", "gpt-4o").
	Model string `mapstructure:"model" yaml:"model"`

	// BaseURL overrides the provider endpoint. Empty uses the provider default.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// APIKey authenticates hosted providers. Ignored by local ones.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`

	// MaxTokens bounds generated output length.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`

	// Temperature controls sampling for generation requests.
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
}

// ClassifierConfig holds the settings for the zero-shot classifier sidecar.
type ClassifierConfig struct {
	// Endpoint is the URL of the zero-shot classification service.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// TimeoutSeconds bounds a single classification call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}
