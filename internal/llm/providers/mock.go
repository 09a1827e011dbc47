package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/mlnomadpy/dronify/internal/llm"
)

// MockGeneratorCall records one call to the mock generator.
type MockGeneratorCall struct {
	Request llm.GenerateRequest
}

// MockGenerator implements VisionGenerator for testing. It replays scripted
// responses in order, cycling when exhausted, and records every request.
type MockGenerator struct {
	mu            sync.RWMutex
	responses     []string
	responseIndex int
	calls         []MockGeneratorCall
	err           error
}

// NewMockGenerator creates a new mock generator with scripted responses.
func NewMockGenerator(responses []string) *MockGenerator {
	return &MockGenerator{
		responses: responses,
		calls:     make([]MockGeneratorCall, 0),
	}
}

// FailWith makes every subsequent Generate call return err.
func (g *MockGenerator) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// Name returns the provider name
func (g *MockGenerator) Name() string {
	return "mock"
}

// Generate replays the next scripted response.
func (g *MockGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, MockGeneratorCall{Request: req})

	if g.err != nil {
		return "", llm.TranslateError("mock", g.err)
	}
	if len(g.responses) == 0 {
		return "", llm.TranslateError("mock", fmt.Errorf("no responses configured"))
	}

	response := g.responses[g.responseIndex%len(g.responses)]
	g.responseIndex++
	return response, nil
}

// Calls returns a copy of all recorded calls.
func (g *MockGenerator) Calls() []MockGeneratorCall {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]MockGeneratorCall, len(g.calls))
	copy(out, g.calls)
	return out
}

// MockClassifier implements ZeroShotClassifier for testing. It returns a
// fixed top label and score, ranking the remaining candidates at zero.
type MockClassifier struct {
	mu       sync.RWMutex
	topLabel string
	topScore float64
	err      error
	calls    []string
}

// NewMockClassifier creates a mock classifier that always ranks topLabel
// first with topScore.
func NewMockClassifier(topLabel string, topScore float64) *MockClassifier {
	return &MockClassifier{topLabel: topLabel, topScore: topScore}
}

// FailWith makes every subsequent classification call return err.
func (c *MockClassifier) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// Name returns the provider name
func (c *MockClassifier) Name() string {
	return "mock"
}

// ClassifySimilarity returns the scripted ranking over the candidates.
func (c *MockClassifier) ClassifySimilarity(ctx context.Context, text string, candidates []string) ([]llm.LabelScore, error) {
	c.mu.Lock()
	c.calls = append(c.calls, text)
	err := c.err
	c.mu.Unlock()

	if err != nil {
		return nil, llm.TranslateError("mock", err)
	}

	ranked := make([]llm.LabelScore, 0, len(candidates))
	ranked = append(ranked, llm.LabelScore{Label: c.topLabel, Score: c.topScore})
	for _, cand := range candidates {
		if cand == c.topLabel {
			continue
		}
		ranked = append(ranked, llm.LabelScore{Label: cand, Score: 0})
	}
	return ranked, nil
}

// Calls returns the texts this classifier was asked about.
func (c *MockClassifier) Calls() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}
