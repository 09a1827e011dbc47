package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mlnomadpy/dronify/internal/action"
	"github.com/mlnomadpy/dronify/internal/classify"
	"github.com/mlnomadpy/dronify/internal/plan"
	"github.com/mlnomadpy/dronify/internal/types"
	"github.com/mlnomadpy/dronify/internal/vehicle"
)

// Engine is the single entry point for command handling. It owns the
// process-wide serialization guarantee: at most one command is interpreted
// and executed at a time, so overlapping requests cannot interleave vehicle
// operations. The lock spans planning as well as execution, keeping the
// scene the plan was grounded on from shifting under concurrent commands.
type Engine struct {
	mu         sync.Mutex
	classifier *classify.Classifier
	planner    *plan.Planner
	executor   *Executor
	controller vehicle.Controller
	logger     *slog.Logger
}

// Config wires the engine's collaborators. Planner may be nil when no
// vision generator is configured; vision requests then take the simple path.
type Config struct {
	Controller vehicle.Controller
	Classifier *classify.Classifier
	Planner    *plan.Planner
	Logger     *slog.Logger
}

// New creates an Engine from its collaborators.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		classifier: cfg.Classifier,
		planner:    cfg.Planner,
		executor:   NewExecutor(cfg.Controller, logger),
		controller: cfg.Controller,
		logger:     logger,
	}
}

// HandleSimple interprets the command as a single action and executes it.
// Classification failures produce a failed Outcome without touching the
// vehicle.
func (e *Engine) HandleSimple(ctx context.Context, command string) Outcome {
	id := types.NewID()
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Info("handling command",
		"request_id", id,
		"command", command,
	)
	return e.runSimple(ctx, id, command)
}

// HandleVision interprets the command against the provided image, producing
// a multi-step plan that is executed atomically with respect to other
// commands. When inference is unavailable the request degrades to the
// simple path instead of failing outright, so keyword commands keep working
// without a reachable model.
func (e *Engine) HandleVision(ctx context.Context, command string, image []byte) Outcome {
	id := types.NewID()
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Info("handling vision command",
		"request_id", id,
		"command", command,
		"image_bytes", len(image),
	)

	if e.planner == nil {
		e.logger.Warn("no planner configured, taking simple path", "request_id", id)
		return e.runSimple(ctx, id, command)
	}

	pl, err := e.planner.Plan(ctx, command, image)
	if err != nil {
		if types.CodeOf(err) == types.INFERENCE_UNAVAILABLE {
			e.logger.Warn("inference unavailable, degrading to simple path",
				"request_id", id,
				"error", err,
			)
			return e.runSimple(ctx, id, command)
		}
		return Outcome{
			RequestID: id,
			Status:    OutcomeFailed,
			Message:   err.Error(),
		}
	}

	results := e.executor.Execute(ctx, pl.Actions)
	status := Aggregate(results)
	confidence := pl.Confidence
	return Outcome{
		RequestID:      id,
		Status:         status,
		Message:        summarize(status, results),
		Reasoning:      pl.Rationale,
		Confidence:     &confidence,
		PlannedActions: pl.Actions,
		Results:        results,
	}
}

// runSimple classifies and executes a single action. Callers hold e.mu.
func (e *Engine) runSimple(ctx context.Context, id types.ID, command string) Outcome {
	a, err := e.classifier.Classify(ctx, command)
	if err != nil {
		e.logger.Warn("classification failed",
			"request_id", id,
			"error", err,
		)
		return Outcome{
			RequestID: id,
			Status:    OutcomeFailed,
			Message:   err.Error(),
		}
	}

	results := e.executor.Execute(ctx, []action.Action{a})
	status := Aggregate(results)
	return Outcome{
		RequestID: id,
		Status:    status,
		Message:   summarize(status, results),
		Results:   results,
	}
}

// Initialize arms the vehicle. Typically called once at startup so flight
// commands work from a cold start.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	detail, err := e.controller.Initialize(ctx)
	if err != nil {
		return err
	}
	e.logger.Info("vehicle initialized", "detail", detail)
	return nil
}

// Status reads the current vehicle status. It bypasses the command mutex:
// the controller serializes its own operations, and status polls must not
// queue behind long-running plans.
func (e *Engine) Status(ctx context.Context) (vehicle.Status, error) {
	return e.controller.GetStatus(ctx)
}

// CaptureFrame grabs one camera frame from the vehicle, for the video feed
// and for vision requests that reference the current view.
func (e *Engine) CaptureFrame(ctx context.Context) ([]byte, error) {
	return e.controller.CaptureImage(ctx)
}

// summarize builds a human-readable outcome message from the results.
func summarize(status OutcomeStatus, results []ExecutionResult) string {
	var ok int
	for _, r := range results {
		if r.Status == ExecOK {
			ok++
		}
	}
	switch status {
	case OutcomeSuccess:
		return fmt.Sprintf("executed %d action(s)", ok)
	case OutcomePartial:
		return fmt.Sprintf("executed %d of %d action(s)", ok, len(results))
	default:
		if len(results) == 0 {
			return "no actions executed"
		}
		return fmt.Sprintf("execution failed after %d of %d action(s)", ok, len(results))
	}
}
