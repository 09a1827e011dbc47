// Package plan turns a vision-guided reasoning pass into a validated,
// ordered action sequence: the prompt that asks for one, the lenient
// parser that recovers one from unstructured model output, and the
// planner that applies confidence policy.
package plan

import (
	"github.com/mlnomadpy/dronify/internal/action"
)

// Plan is an ordered action sequence with the model's rationale and a
// confidence score in [0,1]. Read-only after creation and owned exclusively
// by the request that produced it. Actions may be empty only when the
// confidence is below the planner's execution floor.
type Plan struct {
	Actions    []action.Action `json:"actions"`
	Rationale  string          `json:"rationale"`
	Confidence float64         `json:"confidence"`
}

// IsEmpty reports whether the plan carries no actions.
func (p Plan) IsEmpty() bool {
	return len(p.Actions) == 0
}
