package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mlnomadpy/dronify/internal/action"
	"github.com/mlnomadpy/dronify/internal/vehicle"
)

// Executor runs action batches sequentially against the vehicle-control
// interface. Policy is fail-fast: once a step fails, the remaining planned
// steps are recorded as skipped and not attempted, because compounding
// navigation errors without re-assessing the scene is unsafe. Query actions
// (get_status, capture_image) are the exception: their failure never aborts
// a batch.
type Executor struct {
	controller vehicle.Controller
	logger     *slog.Logger
}

// NewExecutor creates an Executor bound to a vehicle controller.
func NewExecutor(controller vehicle.Controller, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		controller: controller,
		logger:     logger,
	}
}

// Execute runs the actions in order and returns one ExecutionResult per
// action, in the same order. It never returns an error: failures are
// recorded in the results and aggregated by the caller.
func (e *Executor) Execute(ctx context.Context, actions []action.Action) []ExecutionResult {
	results := make([]ExecutionResult, 0, len(actions))
	aborted := false

	for _, a := range actions {
		if aborted {
			results = append(results, ExecutionResult{
				Action:    a,
				Status:    ExecSkipped,
				Detail:    "skipped: earlier action in this batch failed",
				Timestamp: time.Now(),
			})
			continue
		}

		detail, err := e.dispatch(ctx, a)
		if err != nil {
			e.logger.Error("action failed",
				"action", a.Name,
				"error", err,
			)
			results = append(results, ExecutionResult{
				Action:    a,
				Status:    ExecFailed,
				Detail:    err.Error(),
				Timestamp: time.Now(),
			})
			if !a.Name.IsQuery() {
				aborted = true
			}
			continue
		}

		e.logger.Info("action completed",
			"action", a.Name,
			"detail", detail,
		)
		results = append(results, ExecutionResult{
			Action:    a,
			Status:    ExecOK,
			Detail:    detail,
			Timestamp: time.Now(),
		})
	}

	return results
}

// dispatch routes one action to the corresponding controller operation.
func (e *Executor) dispatch(ctx context.Context, a action.Action) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}

	switch a.Name {
	case action.Initialize:
		return e.controller.Initialize(ctx)
	case action.Takeoff:
		return e.controller.Takeoff(ctx)
	case action.Land:
		return e.controller.Land(ctx)
	case action.Hover:
		return e.controller.Hover(ctx)
	case action.MoveForward:
		return e.controller.Move(ctx, vehicle.Forward, a.Param("distance"), a.Param("duration"))
	case action.MoveBack:
		return e.controller.Move(ctx, vehicle.Back, a.Param("distance"), a.Param("duration"))
	case action.MoveLeft:
		return e.controller.Move(ctx, vehicle.Left, a.Param("distance"), a.Param("duration"))
	case action.MoveRight:
		return e.controller.Move(ctx, vehicle.Right, a.Param("distance"), a.Param("duration"))
	case action.MoveUp:
		return e.controller.Move(ctx, vehicle.Up, a.Param("distance"), a.Param("duration"))
	case action.MoveDown:
		return e.controller.Move(ctx, vehicle.Down, a.Param("distance"), a.Param("duration"))
	case action.RotateLeft:
		return e.controller.Rotate(ctx, vehicle.Left, a.Param("rate"), a.Param("duration"))
	case action.RotateRight:
		return e.controller.Rotate(ctx, vehicle.Right, a.Param("rate"), a.Param("duration"))
	case action.GetStatus:
		status, err := e.controller.GetStatus(ctx)
		if err != nil {
			return "", err
		}
		return status.String(), nil
	case action.Reset:
		return e.controller.Reset(ctx)
	case action.CaptureImage:
		frame, err := e.controller.CaptureImage(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("captured frame (%d bytes)", len(frame)), nil
	default:
		// Unreachable for validated actions; Validate rejects unknown names.
		_, err := action.Lookup(a.Name)
		return "", err
	}
}
