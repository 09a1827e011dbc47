// Package engine executes validated action sequences against the vehicle
// and exposes the two command entry points used by the transport layer.
package engine

import (
	"time"

	"github.com/mlnomadpy/dronify/internal/action"
	"github.com/mlnomadpy/dronify/internal/types"
)

// ExecStatus is the per-action execution status.
type ExecStatus string

const (
	// ExecOK indicates the vehicle interface completed the action.
	ExecOK ExecStatus = "ok"

	// ExecFailed indicates the vehicle interface reported an error or timed out.
	ExecFailed ExecStatus = "failed"

	// ExecSkipped indicates the action was not attempted because an earlier
	// action in the batch failed.
	ExecSkipped ExecStatus = "skipped"
)

// ExecutionResult records one attempted action. Never mutated after creation.
type ExecutionResult struct {
	Action    action.Action `json:"action"`
	Status    ExecStatus    `json:"status"`
	Detail    string        `json:"detail"`
	Timestamp time.Time     `json:"timestamp"`
}

// OutcomeStatus is the aggregate status of one command request.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomePartial OutcomeStatus = "partial"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome is the terminal artifact returned for one command request,
// serializable directly to a response body. Vision requests carry the plan's
// reasoning, actions, and confidence for caller transparency.
type Outcome struct {
	RequestID      types.ID          `json:"request_id"`
	Status         OutcomeStatus     `json:"status"`
	Message        string            `json:"message"`
	Reasoning      string            `json:"reasoning,omitempty"`
	Confidence     *float64          `json:"confidence,omitempty"`
	PlannedActions []action.Action   `json:"planned_actions,omitempty"`
	Results        []ExecutionResult `json:"execution_results,omitempty"`
}

// Aggregate folds per-action results into the outcome status: success when
// every result is ok, partial when ok and failed mix, failed otherwise.
func Aggregate(results []ExecutionResult) OutcomeStatus {
	var okCount, failedCount int
	for _, r := range results {
		switch r.Status {
		case ExecOK:
			okCount++
		case ExecFailed:
			failedCount++
		}
	}
	switch {
	case failedCount == 0 && okCount == len(results) && len(results) > 0:
		return OutcomeSuccess
	case okCount > 0 && failedCount > 0:
		return OutcomePartial
	default:
		return OutcomeFailed
	}
}
