package plan

import (
	"context"
	"log/slog"

	"github.com/mlnomadpy/dronify/internal/action"
	"github.com/mlnomadpy/dronify/internal/llm"
)

// DefaultConfidenceFloor is the confidence below which a parsed plan is
// replaced with the hover fallback. Tunable via config.
const DefaultConfidenceFloor = 0.3

// fallbackRationale annotates plans replaced by the hover fallback.
const fallbackRationale = "confidence too low; holding position"

// Planner orchestrates one vision-guided planning request: prompt
// construction, generator invocation, lenient parsing, and the
// confidence-floor policy.
type Planner struct {
	generator llm.VisionGenerator
	floor     float64
	logger    *slog.Logger
}

// Option is a functional option for configuring a Planner.
type Option func(*Planner)

// WithConfidenceFloor overrides the hover-fallback confidence floor.
func WithConfidenceFloor(floor float64) Option {
	return func(p *Planner) {
		if floor > 0 {
			p.floor = floor
		}
	}
}

// WithLogger configures the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = l
	}
}

// New creates a Planner around a vision generator.
func New(generator llm.VisionGenerator, opts ...Option) *Planner {
	p := &Planner{
		generator: generator,
		floor:     DefaultConfidenceFloor,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan derives a grounded action plan for the command, with image as
// optional visual context. The inference call may take seconds; it honors
// ctx. A plan below the confidence floor is replaced with a single hover so
// callers expecting execution never receive an empty action list. Inference
// failures return an INFERENCE_UNAVAILABLE error for the caller's degraded
// mode.
func (p *Planner) Plan(ctx context.Context, command string, image []byte) (Plan, error) {
	prompt := BuildPrompt(command, len(image) > 0)

	raw, err := p.generator.Generate(ctx, llm.GenerateRequest{
		Prompt: prompt,
		Image:  image,
	})
	if err != nil {
		return Plan{}, err
	}

	parsed := Parse(raw)
	p.logger.Debug("parsed model plan",
		"command", command,
		"actions", len(parsed.Actions),
		"confidence", parsed.Confidence,
	)

	if parsed.Confidence < p.floor {
		p.logger.Warn("plan confidence below floor, holding position",
			"confidence", parsed.Confidence,
			"floor", p.floor,
		)
		rationale := fallbackRationale
		if parsed.Rationale != "" {
			rationale = parsed.Rationale + "; " + fallbackRationale
		}
		return Plan{
			Actions:    []action.Action{action.MustNew(action.Hover, nil)},
			Rationale:  rationale,
			Confidence: parsed.Confidence,
		}, nil
	}

	return parsed, nil
}
