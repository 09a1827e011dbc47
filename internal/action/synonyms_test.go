package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "take off", Normalize("  Take Off!  "))
	assert.Equal(t, "move forward 5 3", Normalize("Move forward, 5 3."))
	assert.Equal(t, "", Normalize("   "))

	// Sentence periods go, decimal points stay.
	assert.Equal(t, "land", Normalize("Land."))
	assert.Equal(t, "go up 2.5 meters", Normalize("Go up 2.5 meters."))
	assert.Equal(t, "hover now", Normalize("Hover... now."))
}

func TestMatchPhrase_TrailingPunctuation(t *testing.T) {
	// Transcribed speech and typed sentences end with periods; they must
	// still hit the keyword path.
	tests := []struct {
		text string
		want Name
	}{
		{"land.", Land},
		{"take off.", Takeoff},
		{"Move forward 2.5 3.", MoveForward},
	}
	for _, tt := range tests {
		name, _, ok := MatchPhrase(tt.text)
		require.True(t, ok, "expected match for %q", tt.text)
		assert.Equal(t, tt.want, name, "text %q", tt.text)
	}

	assert.Equal(t, []float64{2.5, 3}, ExtractNumbers(Normalize("Move forward 2.5 3.")))
}

func TestMatchPhrase(t *testing.T) {
	tests := []struct {
		text string
		want Name
	}{
		{"take off", Takeoff},
		{"please take off now", Takeoff},
		{"Launch!", Takeoff},
		{"move forward 5 3", MoveForward},
		{"go back a bit", MoveBack},
		{"turn left", RotateLeft},
		{"rotate clockwise", RotateRight},
		{"ascend", MoveUp},
		{"take a picture", CaptureImage},
		{"what's your status", GetStatus},
		{"hold position", Hover},
		{"land the drone", Land},
	}
	for _, tt := range tests {
		name, _, ok := MatchPhrase(tt.text)
		require.True(t, ok, "expected match for %q", tt.text)
		assert.Equal(t, tt.want, name, "text %q", tt.text)
	}
}

func TestMatchPhrase_LongestPhraseWins(t *testing.T) {
	// "move forward" must win over the bare "forward" synonym, and
	// "rotate left" over "left".
	name, phrase, ok := MatchPhrase("move forward")
	require.True(t, ok)
	assert.Equal(t, MoveForward, name)
	assert.Equal(t, "move forward", phrase)

	name, _, ok = MatchPhrase("rotate left now")
	require.True(t, ok)
	assert.Equal(t, RotateLeft, name)
}

func TestMatchPhrase_NoMatch(t *testing.T) {
	_, _, ok := MatchPhrase("bake a cake")
	assert.False(t, ok)

	_, _, ok = MatchPhrase("")
	assert.False(t, ok)
}

func TestMatchPhrase_WordBoundaries(t *testing.T) {
	// "upload" must not match the "up" synonym.
	name, _, ok := MatchPhrase("upload telemetry")
	require.True(t, ok)
	assert.Equal(t, GetStatus, name)
}

func TestExtractNumbers(t *testing.T) {
	assert.Equal(t, []float64{5, 3}, ExtractNumbers("move forward 5 3"))
	assert.Equal(t, []float64{2.5}, ExtractNumbers("go up 2.5 meters"))
	assert.Nil(t, ExtractNumbers("take off"))
}

func TestBindNumbers(t *testing.T) {
	params := BindNumbers(MoveForward, []float64{5, 3})
	assert.Equal(t, map[string]float64{"distance": 5, "duration": 3}, params)

	// Single number binds to the first parameter only.
	params = BindNumbers(MoveForward, []float64{7})
	assert.Equal(t, map[string]float64{"distance": 7}, params)

	// Extra numbers beyond the schema are ignored.
	params = BindNumbers(MoveForward, []float64{5, 3, 9})
	assert.Equal(t, map[string]float64{"distance": 5, "duration": 3}, params)

	// Out-of-range values are dropped so defaults apply.
	params = BindNumbers(MoveForward, []float64{-4, 3})
	assert.Equal(t, map[string]float64{"duration": 3}, params)

	// Actions without parameters bind nothing.
	assert.Nil(t, BindNumbers(Takeoff, []float64{5}))
}
