package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlnomadpy/dronify/internal/action"
	"github.com/mlnomadpy/dronify/internal/classify"
	"github.com/mlnomadpy/dronify/internal/llm/providers"
	"github.com/mlnomadpy/dronify/internal/plan"
	"github.com/mlnomadpy/dronify/internal/types"
	"github.com/mlnomadpy/dronify/internal/vehicle"
)

func newTestEngine(t *testing.T, controller vehicle.Controller, planner *plan.Planner) *Engine {
	t.Helper()
	return New(Config{
		Controller: controller,
		Classifier: classify.New(providers.NewMockClassifier("hover", 0.9)),
		Planner:    planner,
	})
}

func TestHandleSimpleTakeoff(t *testing.T) {
	ctrl := vehicle.NewSimController()
	_, err := ctrl.Initialize(context.Background())
	require.NoError(t, err)

	eng := newTestEngine(t, ctrl, nil)
	outcome := eng.HandleSimple(context.Background(), "take off")

	assert.Equal(t, OutcomeSuccess, outcome.Status)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, action.Takeoff, outcome.Results[0].Action.Name)
	assert.Equal(t, ExecOK, outcome.Results[0].Status)
	assert.False(t, outcome.RequestID.IsZero())

	status, err := eng.Status(context.Background())
	require.NoError(t, err)
	assert.Less(t, status.Position.Z, 0.0)
}

func TestHandleSimpleBindsModifiers(t *testing.T) {
	ctrl := vehicle.NewSimController()
	_, err := ctrl.Initialize(context.Background())
	require.NoError(t, err)
	_, err = ctrl.Takeoff(context.Background())
	require.NoError(t, err)

	eng := newTestEngine(t, ctrl, nil)
	outcome := eng.HandleSimple(context.Background(), "move forward 5 3")

	require.Equal(t, OutcomeSuccess, outcome.Status)
	require.Len(t, outcome.Results, 1)
	a := outcome.Results[0].Action
	assert.Equal(t, action.MoveForward, a.Name)
	assert.Equal(t, 5.0, a.Parameters["distance"])
	assert.Equal(t, 3.0, a.Parameters["duration"])
}

func TestHandleSimpleClassifyFailureSkipsVehicle(t *testing.T) {
	stub := newStubController()
	eng := New(Config{
		Controller: stub,
		Classifier: classify.New(providers.NewMockClassifier("take off", 0.2)),
	})

	outcome := eng.HandleSimple(context.Background(), "recite a poem")

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, stub.recorded())
}

func TestHandleSimpleFailedExecution(t *testing.T) {
	// Takeoff without initialization is refused by the vehicle.
	eng := newTestEngine(t, vehicle.NewSimController(), nil)
	outcome := eng.HandleSimple(context.Background(), "take off")

	assert.Equal(t, OutcomeFailed, outcome.Status)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, ExecFailed, outcome.Results[0].Status)
}

func TestHandleVisionExecutesPlan(t *testing.T) {
	ctrl := vehicle.NewSimController()
	_, err := ctrl.Initialize(context.Background())
	require.NoError(t, err)

	gen := providers.NewMockGenerator([]string{
		"The corridor ahead is clear.\n1. take off\n2. move forward\nConfidence: 0.85",
	})
	eng := newTestEngine(t, ctrl, plan.New(gen))

	outcome := eng.HandleVision(context.Background(), "go down the corridor", []byte{0xff, 0xd8})

	assert.Equal(t, OutcomeSuccess, outcome.Status)
	require.Len(t, outcome.PlannedActions, 2)
	assert.Equal(t, action.Takeoff, outcome.PlannedActions[0].Name)
	assert.Equal(t, action.MoveForward, outcome.PlannedActions[1].Name)
	require.NotNil(t, outcome.Confidence)
	assert.Equal(t, 0.85, *outcome.Confidence)
	assert.Equal(t, "The corridor ahead is clear.", outcome.Reasoning)
	require.Len(t, outcome.Results, 2)

	// The image reached the generator.
	calls := gen.Calls()
	require.Len(t, calls, 1)
	assert.NotEmpty(t, calls[0].Request.Image)
}

func TestHandleVisionGarbledOutputHovers(t *testing.T) {
	ctrl := vehicle.NewSimController()
	_, err := ctrl.Initialize(context.Background())
	require.NoError(t, err)

	gen := providers.NewMockGenerator([]string{"%%% unintelligible %%%"})
	eng := newTestEngine(t, ctrl, plan.New(gen))

	outcome := eng.HandleVision(context.Background(), "do something", []byte{0xff})

	assert.Equal(t, OutcomeSuccess, outcome.Status)
	require.Len(t, outcome.PlannedActions, 1)
	assert.Equal(t, action.Hover, outcome.PlannedActions[0].Name)
	require.NotNil(t, outcome.Confidence)
	assert.Equal(t, 0.0, *outcome.Confidence)
}

func TestHandleVisionDegradesWhenInferenceUnavailable(t *testing.T) {
	ctrl := vehicle.NewSimController()
	_, err := ctrl.Initialize(context.Background())
	require.NoError(t, err)

	gen := providers.NewMockGenerator(nil)
	gen.FailWith(errors.New("connection refused"))
	eng := newTestEngine(t, ctrl, plan.New(gen))

	outcome := eng.HandleVision(context.Background(), "take off", []byte{0xff})

	// Degraded to the keyword path: single classified action, no plan fields.
	assert.Equal(t, OutcomeSuccess, outcome.Status)
	assert.Empty(t, outcome.PlannedActions)
	assert.Nil(t, outcome.Confidence)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, action.Takeoff, outcome.Results[0].Action.Name)
}

func TestHandleVisionWithoutPlannerTakesSimplePath(t *testing.T) {
	ctrl := vehicle.NewSimController()
	_, err := ctrl.Initialize(context.Background())
	require.NoError(t, err)

	eng := newTestEngine(t, ctrl, nil)
	outcome := eng.HandleVision(context.Background(), "take off", nil)

	assert.Equal(t, OutcomeSuccess, outcome.Status)
	require.Len(t, outcome.Results, 1)
	assert.Equal(t, action.Takeoff, outcome.Results[0].Action.Name)
}

func TestHandleVisionPartialOutcome(t *testing.T) {
	stub := newStubController()
	stub.failOn("move_forward")
	gen := providers.NewMockGenerator([]string{
		"Proceeding.\n1. take off\n2. move forward\n3. land\nConfidence: 0.9",
	})
	eng := newTestEngine(t, stub, plan.New(gen))

	outcome := eng.HandleVision(context.Background(), "fly through", []byte{0xff})

	assert.Equal(t, OutcomePartial, outcome.Status)
	require.Len(t, outcome.Results, 3)
	assert.Equal(t, ExecOK, outcome.Results[0].Status)
	assert.Equal(t, ExecFailed, outcome.Results[1].Status)
	assert.Equal(t, ExecSkipped, outcome.Results[2].Status)
}

// overlapController flags any two vehicle operations in flight at once.
type overlapController struct {
	*stubController
	active     int32
	overlapped int32
}

func (o *overlapController) Hover(ctx context.Context) (string, error) {
	if atomic.AddInt32(&o.active, 1) > 1 {
		atomic.StoreInt32(&o.overlapped, 1)
	}
	time.Sleep(2 * time.Millisecond)
	atomic.AddInt32(&o.active, -1)
	return o.stubController.Hover(ctx)
}

func TestCommandsAreSerialized(t *testing.T) {
	ctrl := &overlapController{stubController: newStubController()}
	eng := New(Config{
		Controller: ctrl,
		Classifier: classify.New(nil),
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng.HandleSimple(context.Background(), "hover")
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&ctrl.overlapped))
	assert.Len(t, ctrl.recorded(), 8)
}

func TestOutcomeRequestIDsAreUnique(t *testing.T) {
	eng := newTestEngine(t, newStubController(), nil)
	seen := make(map[types.ID]bool)
	for i := 0; i < 5; i++ {
		outcome := eng.HandleSimple(context.Background(), "hover")
		assert.False(t, seen[outcome.RequestID])
		seen[outcome.RequestID] = true
	}
}
