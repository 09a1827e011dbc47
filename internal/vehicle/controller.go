// Package vehicle abstracts the flight-control interface: one operation per
// vocabulary entry, a connection-status query, and raw camera capture.
// Implementations: an in-process kinematic simulator and a client for the
// AirSim multirotor RPC bridge.
package vehicle

import (
	"context"
	"fmt"
)

// Direction selects the axis and sign of a move or rotation.
type Direction string

const (
	Forward Direction = "forward"
	Back    Direction = "back"
	Left    Direction = "left"
	Right   Direction = "right"
	Up      Direction = "up"
	Down    Direction = "down"
)

// Position is the vehicle's estimated position in meters, NED-style: Z grows
// downward, so altitude is -Z.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Status is a telemetry snapshot returned by the status query.
type Status struct {
	Connected   bool     `json:"connected"`
	Initialized bool     `json:"initialized"`
	Position    Position `json:"position"`
	YawDegrees  float64  `json:"yaw_degrees"`
}

// String renders the snapshot as result detail text.
func (s Status) String() string {
	return fmt.Sprintf("connected=%t initialized=%t position=(%.1f, %.1f, %.1f) yaw=%.1f°",
		s.Connected, s.Initialized, s.Position.X, s.Position.Y, s.Position.Z, s.YawDegrees)
}

// Controller is the flight-control interface consumed by the action
// executor. Every operation returns human-readable detail text on success
// and an error carrying a VEHICLE_* code on failure. Operations honor ctx
// for timeouts; a timed-out call is treated like any other failure.
type Controller interface {
	// IsConnected reports whether the vehicle link is up.
	IsConnected() bool

	// Initialize enables API control and arms the vehicle.
	Initialize(ctx context.Context) (string, error)

	// Takeoff lifts off to hover altitude. Requires Initialize.
	Takeoff(ctx context.Context) (string, error)

	// Land descends and disarms.
	Land(ctx context.Context) (string, error)

	// Hover holds the current position. Always safe to request.
	Hover(ctx context.Context) (string, error)

	// Move translates distance meters in the given direction over duration
	// seconds, then holds position.
	Move(ctx context.Context, dir Direction, distance, duration float64) (string, error)

	// Rotate yaws at rate deg/s in the given direction for duration seconds,
	// then holds position. Only Left and Right are valid.
	Rotate(ctx context.Context, dir Direction, rate, duration float64) (string, error)

	// GetStatus returns the current telemetry snapshot.
	GetStatus(ctx context.Context) (Status, error)

	// Reset disarms, resets vehicle state, and releases API control.
	Reset(ctx context.Context) (string, error)

	// CaptureImage returns the latest forward camera frame as JPEG bytes.
	CaptureImage(ctx context.Context) ([]byte, error)
}
