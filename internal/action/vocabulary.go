// Package action defines the closed vocabulary of primitive vehicle
// operations, their parameter schemas, and the keyword tables used to
// resolve free text to vocabulary entries.
package action

import (
	"fmt"

	"github.com/mlnomadpy/dronify/internal/types"
)

// Name identifies one primitive vehicle operation.
type Name string

const (
	Initialize   Name = "initialize"
	Takeoff      Name = "takeoff"
	Land         Name = "land"
	Hover        Name = "hover"
	MoveForward  Name = "move_forward"
	MoveBack     Name = "move_back"
	MoveLeft     Name = "move_left"
	MoveRight    Name = "move_right"
	MoveUp       Name = "move_up"
	MoveDown     Name = "move_down"
	RotateLeft   Name = "rotate_left"
	RotateRight  Name = "rotate_right"
	GetStatus    Name = "get_status"
	Reset        Name = "reset"
	CaptureImage Name = "capture_image"
)

// String returns the string representation of the action name.
func (n Name) String() string {
	return string(n)
}

// IsValid checks if the name is a member of the vocabulary.
func (n Name) IsValid() bool {
	_, ok := vocabulary[n]
	return ok
}

// IsQuery reports whether the action is a non-destructive query.
// A failing query never aborts the rest of a batch: a missed status read or
// dropped camera frame says nothing about whether the next navigation step
// is safe.
func (n Name) IsQuery() bool {
	return n == GetStatus || n == CaptureImage
}

// ParamSpec declares one parameter of a vocabulary entry: its key, default
// value, and the lowest value it accepts. When Exclusive is true the minimum
// itself is rejected (duration must be strictly positive; distance may be 0).
type ParamSpec struct {
	Key       string
	Default   float64
	Min       float64
	Exclusive bool
}

// Spec declares one vocabulary entry: the canonical phrase handed to the
// zero-shot classifier and the ordered parameter schema. Parameter order
// matters: bare numeric modifiers in a command ("move forward 5 3") bind to
// parameters in declaration order.
type Spec struct {
	Name   Name
	Phrase string
	Params []ParamSpec
}

var (
	moveParams = []ParamSpec{
		{Key: "distance", Default: 2, Min: 0},
		{Key: "duration", Default: 1, Min: 0, Exclusive: true},
	}
	rotateParams = []ParamSpec{
		{Key: "rate", Default: 30, Min: 0, Exclusive: true},
		{Key: "duration", Default: 2, Min: 0, Exclusive: true},
	}
)

// vocabulary is the closed set of primitives. Canonical phrases mirror the
// command surface exposed to the classifier.
var vocabulary = map[Name]Spec{
	Initialize:   {Name: Initialize, Phrase: "initialize"},
	Takeoff:      {Name: Takeoff, Phrase: "take off"},
	Land:         {Name: Land, Phrase: "land"},
	Hover:        {Name: Hover, Phrase: "hover"},
	MoveForward:  {Name: MoveForward, Phrase: "move forward", Params: moveParams},
	MoveBack:     {Name: MoveBack, Phrase: "move back", Params: moveParams},
	MoveLeft:     {Name: MoveLeft, Phrase: "move left", Params: moveParams},
	MoveRight:    {Name: MoveRight, Phrase: "move right", Params: moveParams},
	MoveUp:       {Name: MoveUp, Phrase: "move up", Params: moveParams},
	MoveDown:     {Name: MoveDown, Phrase: "move down", Params: moveParams},
	RotateLeft:   {Name: RotateLeft, Phrase: "rotate left", Params: rotateParams},
	RotateRight:  {Name: RotateRight, Phrase: "rotate right", Params: rotateParams},
	GetStatus:    {Name: GetStatus, Phrase: "get status"},
	Reset:        {Name: Reset, Phrase: "reset"},
	CaptureImage: {Name: CaptureImage, Phrase: "capture image"},
}

// names fixes the iteration order for Names and CandidatePhrases.
var names = []Name{
	Initialize, Takeoff, Land, Hover,
	MoveForward, MoveBack, MoveLeft, MoveRight, MoveUp, MoveDown,
	RotateLeft, RotateRight,
	GetStatus, Reset, CaptureImage,
}

// Lookup returns the Spec for a vocabulary entry.
// Fails with ACTION_UNKNOWN if the name is absent.
func Lookup(name Name) (Spec, error) {
	spec, ok := vocabulary[name]
	if !ok {
		return Spec{}, types.NewError(types.ACTION_UNKNOWN,
			fmt.Sprintf("action %q is not in the vocabulary", name))
	}
	return spec, nil
}

// Names returns all vocabulary entries in a stable order.
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names)
	return out
}

// CandidatePhrases returns the canonical phrase of every vocabulary entry,
// in the same order as Names. These are the candidate labels handed to the
// zero-shot classifier.
func CandidatePhrases() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, vocabulary[n].Phrase)
	}
	return out
}

// ByPhrase resolves a canonical phrase back to its vocabulary entry.
func ByPhrase(phrase string) (Name, bool) {
	for _, n := range names {
		if vocabulary[n].Phrase == phrase {
			return n, true
		}
	}
	return "", false
}
