// Package classify maps raw command text to the closest vocabulary action:
// direct synonym matching first, zero-shot similarity as the fallback.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mlnomadpy/dronify/internal/action"
	"github.com/mlnomadpy/dronify/internal/llm"
	"github.com/mlnomadpy/dronify/internal/types"
)

// DefaultThreshold is the zero-shot acceptance threshold used when the
// config leaves it unset. A top score at or above the threshold is accepted.
const DefaultThreshold = 0.5

// Classifier resolves free text to a single vocabulary action.
type Classifier struct {
	zeroShot  llm.ZeroShotClassifier
	threshold float64
	logger    *slog.Logger
}

// Option is a functional option for configuring a Classifier.
type Option func(*Classifier)

// WithThreshold overrides the zero-shot acceptance threshold.
func WithThreshold(threshold float64) Option {
	return func(c *Classifier) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// WithLogger configures the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = l
	}
}

// New creates a Classifier. zeroShot may be nil, in which case only direct
// synonym matching is available.
func New(zeroShot llm.ZeroShotClassifier, opts ...Option) *Classifier {
	c := &Classifier{
		zeroShot:  zeroShot,
		threshold: DefaultThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify resolves text to an Action or fails with CLASSIFY_NO_MATCH.
//
// Direct synonym matching runs first; on a hit, numeric modifiers from the
// remaining tokens override the schema defaults ("move forward 5 3" binds
// distance=5, duration=3). Otherwise the zero-shot classifier ranks the
// canonical phrases and the top label is accepted only at or above the
// threshold. A failing inference call surfaces as INFERENCE_UNAVAILABLE.
func (c *Classifier) Classify(ctx context.Context, text string) (action.Action, error) {
	normalized := action.Normalize(text)
	if normalized == "" {
		return action.Action{}, types.NewError(types.CLASSIFY_NO_MATCH, "empty command")
	}

	if name, phrase, ok := action.MatchPhrase(normalized); ok {
		params := action.BindNumbers(name, action.ExtractNumbers(normalized))
		a, err := action.New(name, params)
		if err != nil {
			return action.Action{}, err
		}
		c.logger.Debug("direct keyword match",
			"command", normalized,
			"phrase", phrase,
			"action", a.Name,
		)
		return a, nil
	}

	if c.zeroShot == nil {
		return action.Action{}, types.NewError(types.CLASSIFY_NO_MATCH,
			fmt.Sprintf("no keyword match for %q and no classifier available", normalized))
	}

	ranked, err := c.zeroShot.ClassifySimilarity(ctx, normalized, action.CandidatePhrases())
	if err != nil {
		return action.Action{}, err
	}
	if len(ranked) == 0 {
		return action.Action{}, types.NewError(types.CLASSIFY_NO_MATCH,
			fmt.Sprintf("classifier returned no candidates for %q", normalized))
	}

	top := ranked[0]
	c.logger.Debug("zero-shot interpretation",
		"command", normalized,
		"label", top.Label,
		"score", top.Score,
	)

	if top.Score < c.threshold {
		return action.Action{}, types.NewError(types.CLASSIFY_NO_MATCH,
			fmt.Sprintf("top label %q scored %.2f, below threshold %.2f", top.Label, top.Score, c.threshold))
	}

	name, ok := action.ByPhrase(top.Label)
	if !ok {
		return action.Action{}, types.NewError(types.CLASSIFY_NO_MATCH,
			fmt.Sprintf("classifier label %q is not a vocabulary phrase", top.Label))
	}
	return action.New(name, nil)
}
