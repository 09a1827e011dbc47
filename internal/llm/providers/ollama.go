package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/mlnomadpy/dronify/internal/llm"
)

// OllamaGenerator implements VisionGenerator for local Ollama models.
// Vision-capable models (llava, bakllava) accept the image as a binary
// content part alongside the prompt text.
type OllamaGenerator struct {
	client *ollama.LLM
	config llm.ProviderConfig
}

// NewOllamaGenerator creates a new Ollama vision generator.
func NewOllamaGenerator(cfg llm.ProviderConfig) (*OllamaGenerator, error) {
	serverURL := cfg.BaseURL
	if serverURL == "" {
		serverURL = "http://localhost:11434"
	}

	opts := []ollama.Option{
		ollama.WithServerURL(serverURL),
	}
	if cfg.Model != "" {
		opts = append(opts, ollama.WithModel(cfg.Model))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	return &OllamaGenerator{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name
func (g *OllamaGenerator) Name() string {
	return "ollama"
}

// Generate sends a generation request and returns the full response text.
func (g *OllamaGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	messages := toMessageContent(req)
	callOpts := buildCallOptions(req, g.config)

	resp, err := g.client.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", llm.TranslateError("ollama", err)
	}

	return firstChoice(resp), nil
}
