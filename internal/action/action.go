package action

import (
	"fmt"

	"github.com/mlnomadpy/dronify/internal/types"
)

// Action is one primitive vehicle operation with bound parameters.
// Immutable once created: constructors validate against the vocabulary and
// callers must not mutate Parameters afterward.
type Action struct {
	Name       Name               `json:"name"`
	Parameters map[string]float64 `json:"parameters,omitempty"`
}

// New constructs a validated Action. Missing parameters are filled from the
// schema defaults; unknown keys and out-of-range values fail with
// ACTION_INVALID_PARAMS naming the offending key.
func New(name Name, params map[string]float64) (Action, error) {
	spec, err := Lookup(name)
	if err != nil {
		return Action{}, err
	}

	bound := make(map[string]float64, len(spec.Params))
	for _, p := range spec.Params {
		bound[p.Key] = p.Default
	}

	for key, val := range params {
		ps, ok := paramSpec(spec, key)
		if !ok {
			return Action{}, types.NewError(types.ACTION_INVALID_PARAMS,
				fmt.Sprintf("action %q does not take parameter %q", name, key))
		}
		if val < ps.Min || (ps.Exclusive && val == ps.Min) {
			return Action{}, types.NewError(types.ACTION_INVALID_PARAMS,
				fmt.Sprintf("parameter %q of action %q out of range: %v", key, name, val))
		}
		bound[key] = val
	}

	if len(bound) == 0 {
		bound = nil
	}
	return Action{Name: name, Parameters: bound}, nil
}

// MustNew is New for static action values known to be valid. It panics on
// validation failure and is intended for fallback plans and tests.
func MustNew(name Name, params map[string]float64) Action {
	a, err := New(name, params)
	if err != nil {
		panic(err)
	}
	return a
}

// Validate re-checks the action against the vocabulary schema. Actions built
// through New are always valid; Validate guards values deserialized from
// outside the process.
func (a Action) Validate() error {
	spec, err := Lookup(a.Name)
	if err != nil {
		return err
	}
	for key, val := range a.Parameters {
		ps, ok := paramSpec(spec, key)
		if !ok {
			return types.NewError(types.ACTION_INVALID_PARAMS,
				fmt.Sprintf("action %q does not take parameter %q", a.Name, key))
		}
		if val < ps.Min || (ps.Exclusive && val == ps.Min) {
			return types.NewError(types.ACTION_INVALID_PARAMS,
				fmt.Sprintf("parameter %q of action %q out of range: %v", key, a.Name, val))
		}
	}
	for _, p := range spec.Params {
		if _, ok := a.Parameters[p.Key]; !ok {
			return types.NewError(types.ACTION_INVALID_PARAMS,
				fmt.Sprintf("action %q missing required parameter %q", a.Name, p.Key))
		}
	}
	return nil
}

// Param returns the bound value for a key, falling back to the schema
// default when the key is absent.
func (a Action) Param(key string) float64 {
	if v, ok := a.Parameters[key]; ok {
		return v
	}
	if spec, err := Lookup(a.Name); err == nil {
		if ps, ok := paramSpec(spec, key); ok {
			return ps.Default
		}
	}
	return 0
}

// String renders the action for logs and result details.
func (a Action) String() string {
	if len(a.Parameters) == 0 {
		return string(a.Name)
	}
	return fmt.Sprintf("%s%v", a.Name, a.Parameters)
}

func paramSpec(spec Spec, key string) (ParamSpec, bool) {
	for _, p := range spec.Params {
		if p.Key == key {
			return p, true
		}
	}
	return ParamSpec{}, false
}
