package vehicle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlnomadpy/dronify/internal/types"
)

func TestSim_FullFlight(t *testing.T) {
	ctx := context.Background()
	sim := NewSimController()
	require.True(t, sim.IsConnected())

	_, err := sim.Initialize(ctx)
	require.NoError(t, err)

	_, err = sim.Takeoff(ctx)
	require.NoError(t, err)

	_, err = sim.Move(ctx, Forward, 5, 3)
	require.NoError(t, err)
	_, err = sim.Move(ctx, Right, 2, 1)
	require.NoError(t, err)
	_, err = sim.Rotate(ctx, Right, 30, 2)
	require.NoError(t, err)

	status, err := sim.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5.0, status.Position.X)
	assert.Equal(t, 2.0, status.Position.Y)
	assert.Equal(t, -3.0, status.Position.Z)
	assert.Equal(t, 60.0, status.YawDegrees)
	assert.True(t, status.Initialized)

	detail, err := sim.Land(ctx)
	require.NoError(t, err)
	assert.Contains(t, detail, "disarmed")

	status, err = sim.GetStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.Initialized)
}

func TestSim_RequiresInitialization(t *testing.T) {
	ctx := context.Background()
	sim := NewSimController()

	_, err := sim.Takeoff(ctx)
	require.Error(t, err)
	assert.Equal(t, types.VEHICLE_NOT_ARMED, types.CodeOf(err))

	_, err = sim.Move(ctx, Forward, 2, 1)
	assert.Equal(t, types.VEHICLE_NOT_ARMED, types.CodeOf(err))
}

func TestSim_HoverAlwaysSucceeds(t *testing.T) {
	ctx := context.Background()
	sim := NewSimController()

	// Hover on the ground, before initialization, is a no-op, not a fault.
	detail, err := sim.Hover(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hovering", detail)
}

func TestSim_MoveRequiresAirborne(t *testing.T) {
	ctx := context.Background()
	sim := NewSimController()
	_, err := sim.Initialize(ctx)
	require.NoError(t, err)

	_, err = sim.Move(ctx, Forward, 2, 1)
	require.Error(t, err)
	assert.Equal(t, types.VEHICLE_OP_FAILED, types.CodeOf(err))
}

func TestSim_DisconnectedFailsUnreachable(t *testing.T) {
	ctx := context.Background()
	sim := NewSimController()
	sim.Disconnect()

	assert.False(t, sim.IsConnected())

	_, err := sim.Initialize(ctx)
	assert.Equal(t, types.VEHICLE_UNREACHABLE, types.CodeOf(err))

	_, err = sim.Hover(ctx)
	assert.Equal(t, types.VEHICLE_UNREACHABLE, types.CodeOf(err))

	_, err = sim.CaptureImage(ctx)
	assert.Equal(t, types.VEHICLE_UNREACHABLE, types.CodeOf(err))
}

func TestSim_Reset(t *testing.T) {
	ctx := context.Background()
	sim := NewSimController()
	_, err := sim.Initialize(ctx)
	require.NoError(t, err)
	_, err = sim.Takeoff(ctx)
	require.NoError(t, err)

	_, err = sim.Reset(ctx)
	require.NoError(t, err)

	status, err := sim.GetStatus(ctx)
	require.NoError(t, err)
	assert.False(t, status.Initialized)
	assert.Equal(t, Position{}, status.Position)
}

func TestSim_CaptureImageReturnsJPEG(t *testing.T) {
	sim := NewSimController()

	frame, err := sim.CaptureImage(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, frame)
	// JPEG SOI marker.
	assert.Equal(t, byte(0xff), frame[0])
	assert.Equal(t, byte(0xd8), frame[1])

	// Frames differ between captures so the video feed visibly updates.
	second, err := sim.CaptureImage(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, frame, second)
}

func TestSim_DownClampsAtGround(t *testing.T) {
	ctx := context.Background()
	sim := NewSimController()
	sim.Initialize(ctx)
	sim.Takeoff(ctx)

	_, err := sim.Move(ctx, Down, 10, 2)
	require.NoError(t, err)

	status, _ := sim.GetStatus(ctx)
	assert.Equal(t, 0.0, status.Position.Z)
}
