package config

import (
	"github.com/mlnomadpy/dronify/internal/classify"
	"github.com/mlnomadpy/dronify/internal/llm"
	"github.com/mlnomadpy/dronify/internal/plan"
	"github.com/mlnomadpy/dronify/internal/vehicle"
)

// DefaultConfig returns a Config with sensible default values: the built-in
// simulator, a local Ollama vision model, and no zero-shot sidecar.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:  "127.0.0.1:8000",
			VideoFPS: 20,
		},
		Vehicle: vehicle.Config{
			Mode:           "sim",
			Address:        "127.0.0.1:41451",
			TimeoutSeconds: 30,
		},
		LLM: llm.ProviderConfig{
			Provider:    "ollama",
			Model:       "llava",
			MaxTokens:   512,
			Temperature: 0.2,
		},
		Classifier: llm.ClassifierConfig{
			Endpoint:       "",
			TimeoutSeconds: 10,
		},
		Engine: EngineConfig{
			ClassifyThreshold: classify.DefaultThreshold,
			ConfidenceFloor:   plan.DefaultConfidenceFloor,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
