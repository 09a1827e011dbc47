package vehicle

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"

	"github.com/mlnomadpy/dronify/internal/types"
)

const simHoverAltitude = 3.0 // meters above ground after takeoff

// SimController is an in-process kinematic simulator. It tracks position and
// yaw, enforces the arming rules of the real bridge, and synthesizes camera
// frames, so the full command path can run without a simulator attached.
// Safe for concurrent use.
type SimController struct {
	mu          sync.Mutex
	connected   bool
	initialized bool
	airborne    bool
	pos         Position
	yaw         float64
	frameSeq    int
}

// NewSimController creates a connected simulated vehicle on the ground.
func NewSimController() *SimController {
	return &SimController{connected: true}
}

// Disconnect drops the simulated link. Subsequent operations fail with
// VEHICLE_UNREACHABLE.
func (s *SimController) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
}

// IsConnected reports whether the simulated link is up.
func (s *SimController) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Initialize arms the simulated vehicle.
func (s *SimController) Initialize(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return "", types.NewError(types.VEHICLE_UNREACHABLE, "simulator not connected")
	}
	s.initialized = true
	return "vehicle initialized: API control enabled and armed", nil
}

// Takeoff lifts the simulated vehicle to hover altitude.
func (s *SimController) Takeoff(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireArmed(); err != nil {
		return "", err
	}
	s.airborne = true
	s.pos.Z = -simHoverAltitude
	return fmt.Sprintf("takeoff complete, hovering at %.1fm", simHoverAltitude), nil
}

// Land brings the simulated vehicle down and disarms it.
func (s *SimController) Land(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireArmed(); err != nil {
		return "", err
	}
	s.airborne = false
	s.pos.Z = 0
	s.initialized = false
	return "landing complete, vehicle disarmed", nil
}

// Hover holds position. Always succeeds while the link is up: holding
// position on the ground is a no-op, not a fault.
func (s *SimController) Hover(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return "", types.NewError(types.VEHICLE_UNREACHABLE, "simulator not connected")
	}
	return "hovering", nil
}

// Move translates the simulated vehicle. Moves are world-frame axis-aligned,
// matching the bridge's velocity commands.
func (s *SimController) Move(ctx context.Context, dir Direction, distance, duration float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireArmed(); err != nil {
		return "", err
	}
	if !s.airborne {
		return "", types.NewError(types.VEHICLE_OP_FAILED, "cannot move: vehicle is on the ground")
	}

	switch dir {
	case Forward:
		s.pos.X += distance
	case Back:
		s.pos.X -= distance
	case Left:
		s.pos.Y -= distance
	case Right:
		s.pos.Y += distance
	case Up:
		s.pos.Z -= distance
	case Down:
		s.pos.Z += distance
		if s.pos.Z > 0 {
			s.pos.Z = 0
		}
	default:
		return "", types.NewError(types.VEHICLE_OP_FAILED, fmt.Sprintf("unknown move direction %q", dir))
	}
	return fmt.Sprintf("moved %s %.1fm over %.1fs, holding position", dir, distance, duration), nil
}

// Rotate yaws the simulated vehicle in place.
func (s *SimController) Rotate(ctx context.Context, dir Direction, rate, duration float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireArmed(); err != nil {
		return "", err
	}

	degrees := rate * duration
	switch dir {
	case Left:
		s.yaw -= degrees
	case Right:
		s.yaw += degrees
	default:
		return "", types.NewError(types.VEHICLE_OP_FAILED, fmt.Sprintf("cannot rotate %q", dir))
	}
	s.yaw = normalizeDegrees(s.yaw)
	return fmt.Sprintf("rotated %s %.1f°, holding position", dir, degrees), nil
}

// GetStatus returns the simulated telemetry snapshot.
func (s *SimController) GetStatus(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return Status{}, types.NewError(types.VEHICLE_UNREACHABLE, "simulator not connected")
	}
	return Status{
		Connected:   s.connected,
		Initialized: s.initialized,
		Position:    s.pos,
		YawDegrees:  s.yaw,
	}, nil
}

// Reset disarms and zeroes the simulated state.
func (s *SimController) Reset(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return "", types.NewError(types.VEHICLE_UNREACHABLE, "simulator not connected")
	}
	s.initialized = false
	s.airborne = false
	s.pos = Position{}
	s.yaw = 0
	return "vehicle reset", nil
}

// CaptureImage synthesizes a JPEG frame with a moving gradient so the video
// feed visibly updates between frames.
func (s *SimController) CaptureImage(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return nil, types.NewError(types.VEHICLE_UNREACHABLE, "simulator not connected")
	}
	s.frameSeq++
	seq := s.frameSeq
	s.mu.Unlock()

	const w, h = 320, 240
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x + seq) % 256),
				G: uint8((y + seq) % 256),
				B: uint8(seq % 256),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, types.WrapError(types.VEHICLE_OP_FAILED, "frame encode failed", err)
	}
	return buf.Bytes(), nil
}

// requireArmed enforces the bridge's arming rule. Callers hold s.mu.
func (s *SimController) requireArmed() error {
	if !s.connected {
		return types.NewError(types.VEHICLE_UNREACHABLE, "simulator not connected")
	}
	if !s.initialized {
		return types.NewError(types.VEHICLE_NOT_ARMED,
			"vehicle is not initialized; send the initialize command first")
	}
	return nil
}

func normalizeDegrees(d float64) float64 {
	for d <= -180 {
		d += 360
	}
	for d > 180 {
		d -= 360
	}
	return d
}
