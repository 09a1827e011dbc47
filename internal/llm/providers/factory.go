package providers

import (
	"fmt"

	"github.com/mlnomadpy/dronify/internal/llm"
	"github.com/mlnomadpy/dronify/internal/types"
)

// NewVisionGenerator constructs the configured vision generator.
func NewVisionGenerator(cfg llm.ProviderConfig) (llm.VisionGenerator, error) {
	switch cfg.Provider {
	case "ollama", "":
		return NewOllamaGenerator(cfg)
	case "openai":
		return NewOpenAIGenerator(cfg)
	case "mock":
		return NewMockGenerator(nil), nil
	default:
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown vision provider %q", cfg.Provider))
	}
}
