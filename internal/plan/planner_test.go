package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlnomadpy/dronify/internal/action"
	"github.com/mlnomadpy/dronify/internal/llm/providers"
	"github.com/mlnomadpy/dronify/internal/types"
)

func TestPlanner_ConfidentPlan(t *testing.T) {
	gen := providers.NewMockGenerator([]string{
		"Clear path to the building.\n1. move forward 5 3\n2. land\nConfidence: 0.85",
	})
	p := New(gen)

	got, err := p.Plan(context.Background(), "navigate to the building", []byte{0xff, 0xd8})
	require.NoError(t, err)
	require.Len(t, got.Actions, 2)
	assert.Equal(t, action.MoveForward, got.Actions[0].Name)
	assert.Equal(t, action.Land, got.Actions[1].Name)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Request.Prompt, "navigate to the building")
	assert.NotEmpty(t, calls[0].Request.Image)
}

func TestPlanner_HoverFallbackOnGarbledOutput(t *testing.T) {
	gen := providers.NewMockGenerator([]string{"???"})
	p := New(gen)

	got, err := p.Plan(context.Background(), "find a safe landing spot", nil)
	require.NoError(t, err)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, action.Hover, got.Actions[0].Name)
	assert.Contains(t, got.Rationale, "confidence too low; holding position")
	assert.Equal(t, 0.0, got.Confidence)
}

func TestPlanner_HoverFallbackBelowFloor(t *testing.T) {
	gen := providers.NewMockGenerator([]string{
		"Hard to tell what is below.\n1. move down\nConfidence: 0.2",
	})
	p := New(gen)

	got, err := p.Plan(context.Background(), "descend", nil)
	require.NoError(t, err)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, action.Hover, got.Actions[0].Name)
	assert.Contains(t, got.Rationale, "Hard to tell what is below.")
	assert.InDelta(t, 0.2, got.Confidence, 1e-9)
}

func TestPlanner_CustomFloor(t *testing.T) {
	gen := providers.NewMockGenerator([]string{"1. take off\nConfidence: 0.4"})
	p := New(gen, WithConfidenceFloor(0.45))

	got, err := p.Plan(context.Background(), "take off", nil)
	require.NoError(t, err)
	require.Len(t, got.Actions, 1)
	assert.Equal(t, action.Hover, got.Actions[0].Name)
}

func TestPlanner_TextOnlyPromptNotesMissingImage(t *testing.T) {
	gen := providers.NewMockGenerator([]string{"1. hover\nConfidence: 0.9"})
	p := New(gen)

	_, err := p.Plan(context.Background(), "hold still", nil)
	require.NoError(t, err)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Request.Prompt, "No camera image is available")
	assert.Nil(t, calls[0].Request.Image)
}

func TestPlanner_InferenceFailure(t *testing.T) {
	gen := providers.NewMockGenerator(nil)
	gen.FailWith(errors.New("model not loaded"))
	p := New(gen)

	_, err := p.Plan(context.Background(), "take off", nil)
	require.Error(t, err)
	assert.Equal(t, types.INFERENCE_UNAVAILABLE, types.CodeOf(err))
}
