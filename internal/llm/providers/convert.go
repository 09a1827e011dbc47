package providers

import (
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/mlnomadpy/dronify/internal/llm"
)

// toMessageContent converts a generation request to langchaingo message
// content. The image, when present, rides as a binary part on the same user
// message as the prompt text.
func toMessageContent(req llm.GenerateRequest) []llms.MessageContent {
	parts := []llms.ContentPart{
		llms.TextPart(req.Prompt),
	}
	if len(req.Image) > 0 {
		parts = append(parts, llms.BinaryPart("image/jpeg", req.Image))
	}

	return []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: parts,
		},
	}
}

// buildCallOptions converts request and provider settings to langchaingo
// call options. Request values win over provider config defaults.
func buildCallOptions(req llm.GenerateRequest, cfg llm.ProviderConfig) []llms.CallOption {
	var opts []llms.CallOption

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = cfg.MaxTokens
	}
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = cfg.Temperature
	}
	if temperature > 0 {
		opts = append(opts, llms.WithTemperature(temperature))
	}

	return opts
}

// firstChoice extracts the text of the first choice from a content response.
func firstChoice(resp *llms.ContentResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Content
}
