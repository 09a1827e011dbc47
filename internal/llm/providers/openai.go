package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/mlnomadpy/dronify/internal/llm"
)

// OpenAIGenerator implements VisionGenerator for OpenAI vision models
// (gpt-4o and friends).
type OpenAIGenerator struct {
	client *openai.LLM
	config llm.ProviderConfig
}

// NewOpenAIGenerator creates a new OpenAI vision generator.
func NewOpenAIGenerator(cfg llm.ProviderConfig) (*OpenAIGenerator, error) {
	opts := []openai.Option{}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("openai", err)
	}

	return &OpenAIGenerator{
		client: client,
		config: cfg,
	}, nil
}

// Name returns the provider name
func (g *OpenAIGenerator) Name() string {
	return "openai"
}

// Generate sends a generation request and returns the full response text.
func (g *OpenAIGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	messages := toMessageContent(req)
	callOpts := buildCallOptions(req, g.config)

	resp, err := g.client.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", llm.TranslateError("openai", err)
	}

	return firstChoice(resp), nil
}
