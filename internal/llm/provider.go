// Package llm defines the model-inference boundary of the engine: a vision
// generator for scene-grounded planning and a zero-shot classifier for
// mapping free text onto the action vocabulary. Both are long-running,
// potentially blocking calls and always take a context.
package llm

import "context"

// GenerateRequest is a single vision-language generation request. Image is
// optional; when nil the generator is expected to answer from the prompt
// alone.
type GenerateRequest struct {
	// Prompt is the fully rendered prompt text.
	Prompt string

	// Image holds JPEG-encoded image bytes, or nil for text-only planning.
	Image []byte

	// MaxTokens bounds the generated output. Zero means provider default.
	MaxTokens int

	// Temperature controls sampling. Zero means provider default.
	Temperature float64
}

// VisionGenerator produces free text from a prompt plus optional image.
// The output format is not guaranteed; callers must parse leniently.
type VisionGenerator interface {
	// Name returns the provider name (e.g. "ollama", "openai", "mock").
	Name() string

	// Generate sends the request and blocks until the full response text is
	// available. Failures are translated to INFERENCE_UNAVAILABLE.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// LabelScore is one ranked candidate from a zero-shot classification.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ZeroShotClassifier ranks candidate labels by similarity to the input text.
type ZeroShotClassifier interface {
	// Name returns the provider name.
	Name() string

	// ClassifySimilarity returns candidates ranked best-first. The result
	// always contains every candidate label exactly once.
	ClassifySimilarity(ctx context.Context, text string, candidates []string) ([]LabelScore, error)
}
