package vehicle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mlnomadpy/dronify/internal/types"
)

// Config selects and parameterizes the vehicle controller.
type Config struct {
	// Mode selects the implementation: "sim" or "airsim".
	Mode string `mapstructure:"mode" yaml:"mode"`

	// Address is the AirSim bridge endpoint ("host:port"). Ignored in sim mode.
	Address string `mapstructure:"address" yaml:"address"`

	// TimeoutSeconds bounds a single vehicle operation.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

const (
	defaultAirSimAddress = "127.0.0.1:41451"
	defaultOpTimeout     = 30 * time.Second
)

// NewController constructs the configured vehicle controller.
func NewController(cfg Config) (Controller, error) {
	switch cfg.Mode {
	case "sim", "":
		return NewSimController(), nil
	case "airsim":
		return NewAirSimController(cfg)
	default:
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown vehicle mode %q", cfg.Mode))
	}
}

// AirSimController drives a multirotor through the AirSim RPC bridge
// (msgpack-rpc over TCP). Operation semantics mirror the simulator API:
// velocity-based moves followed by a hover, yaw-rate rotation, arming via
// enableApiControl + armDisarm.
type AirSimController struct {
	rpc       *rpcClient
	opTimeout time.Duration

	mu          sync.Mutex
	connected   bool
	initialized bool
}

// NewAirSimController dials the bridge and confirms the connection with a
// ping. Dial or ping failure returns VEHICLE_UNREACHABLE.
func NewAirSimController(cfg Config) (*AirSimController, error) {
	addr := cfg.Address
	if addr == "" {
		addr = defaultAirSimAddress
	}
	opTimeout := defaultOpTimeout
	if cfg.TimeoutSeconds > 0 {
		opTimeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	rpc, err := dialRPC(addr, opTimeout)
	if err != nil {
		return nil, types.WrapError(types.VEHICLE_UNREACHABLE,
			fmt.Sprintf("cannot reach AirSim bridge at %s", addr), err)
	}

	c := &AirSimController{
		rpc:       rpc,
		opTimeout: opTimeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if _, err := rpc.call(ctx, "ping"); err != nil {
		rpc.close()
		return nil, types.WrapError(types.VEHICLE_UNREACHABLE, "AirSim bridge did not answer ping", err)
	}
	c.connected = true
	return c, nil
}

// Close shuts the bridge connection down.
func (c *AirSimController) Close() error {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	return c.rpc.close()
}

// IsConnected reports whether the bridge link is up.
func (c *AirSimController) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Initialize enables API control and arms the vehicle.
func (c *AirSimController) Initialize(ctx context.Context) (string, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.rpc.call(ctx, "enableApiControl", true, ""); err != nil {
		return "", c.opError("initialize", err)
	}
	if _, err := c.rpc.call(ctx, "armDisarm", true, ""); err != nil {
		return "", c.opError("initialize", err)
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()
	return "vehicle initialized: API control enabled and armed", nil
}

// Takeoff lifts off to hover altitude.
func (c *AirSimController) Takeoff(ctx context.Context) (string, error) {
	if err := c.requireArmed(); err != nil {
		return "", err
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.rpc.call(ctx, "takeoff", c.opTimeout.Seconds(), ""); err != nil {
		return "", c.opError("takeoff", err)
	}
	return "takeoff complete", nil
}

// Land descends and disarms.
func (c *AirSimController) Land(ctx context.Context) (string, error) {
	if err := c.requireArmed(); err != nil {
		return "", err
	}
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.rpc.call(ctx, "land", c.opTimeout.Seconds(), ""); err != nil {
		return "", c.opError("land", err)
	}
	if _, err := c.rpc.call(ctx, "armDisarm", false, ""); err != nil {
		return "", c.opError("land", err)
	}

	c.mu.Lock()
	c.initialized = false
	c.mu.Unlock()
	return "landing complete, vehicle disarmed", nil
}

// Hover holds the current position.
func (c *AirSimController) Hover(ctx context.Context) (string, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.rpc.call(ctx, "hover", ""); err != nil {
		return "", c.opError("hover", err)
	}
	return "hovering", nil
}

// Move issues a velocity command derived from distance and duration, then
// holds position, matching the bridge's moveByVelocity semantics (NED frame:
// up is negative Z).
func (c *AirSimController) Move(ctx context.Context, dir Direction, distance, duration float64) (string, error) {
	if err := c.requireArmed(); err != nil {
		return "", err
	}
	if duration <= 0 {
		return "", types.NewError(types.VEHICLE_OP_FAILED, "move duration must be positive")
	}

	speed := distance / duration
	var vx, vy, vz float64
	switch dir {
	case Forward:
		vx = speed
	case Back:
		vx = -speed
	case Left:
		vy = -speed
	case Right:
		vy = speed
	case Up:
		vz = -speed
	case Down:
		vz = speed
	default:
		return "", types.NewError(types.VEHICLE_OP_FAILED, fmt.Sprintf("unknown move direction %q", dir))
	}

	ctx, cancel := c.opContext(ctx)
	defer cancel()

	yawMode := map[string]any{"is_rate": false, "yaw_or_rate": 0.0}
	if _, err := c.rpc.call(ctx, "moveByVelocity", vx, vy, vz, duration, 0, yawMode, ""); err != nil {
		return "", c.opError("move", err)
	}
	if _, err := c.rpc.call(ctx, "hover", ""); err != nil {
		return "", c.opError("move", err)
	}
	return fmt.Sprintf("moved %s %.1fm over %.1fs, holding position", dir, distance, duration), nil
}

// Rotate yaws at the given rate, then holds position.
func (c *AirSimController) Rotate(ctx context.Context, dir Direction, rate, duration float64) (string, error) {
	if err := c.requireArmed(); err != nil {
		return "", err
	}

	var yawRate float64
	switch dir {
	case Left:
		yawRate = -rate
	case Right:
		yawRate = rate
	default:
		return "", types.NewError(types.VEHICLE_OP_FAILED, fmt.Sprintf("cannot rotate %q", dir))
	}

	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.rpc.call(ctx, "rotateByYawRate", yawRate, duration, ""); err != nil {
		return "", c.opError("rotate", err)
	}
	if _, err := c.rpc.call(ctx, "hover", ""); err != nil {
		return "", c.opError("rotate", err)
	}
	return fmt.Sprintf("rotated %s %.1f°, holding position", dir, rate*duration), nil
}

// GetStatus queries the multirotor state and extracts the position estimate.
// Fields the bridge omits are left at their zero values; a partial answer is
// still an answer.
func (c *AirSimController) GetStatus(ctx context.Context) (Status, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	raw, err := c.rpc.call(ctx, "getMultirotorState", "")
	if err != nil {
		return Status{}, c.opError("get_status", err)
	}

	c.mu.Lock()
	status := Status{
		Connected:   c.connected,
		Initialized: c.initialized,
	}
	c.mu.Unlock()

	if state, ok := raw.(map[string]any); ok {
		if kin, ok := state["kinematics_estimated"].(map[string]any); ok {
			if pos, ok := kin["position"].(map[string]any); ok {
				if v, ok := toFloat64(pos["x_val"]); ok {
					status.Position.X = v
				}
				if v, ok := toFloat64(pos["y_val"]); ok {
					status.Position.Y = v
				}
				if v, ok := toFloat64(pos["z_val"]); ok {
					status.Position.Z = v
				}
			}
		}
	}
	return status, nil
}

// Reset disarms, resets the simulation, and releases API control.
func (c *AirSimController) Reset(ctx context.Context) (string, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	if _, err := c.rpc.call(ctx, "armDisarm", false, ""); err != nil {
		return "", c.opError("reset", err)
	}
	if _, err := c.rpc.call(ctx, "reset"); err != nil {
		return "", c.opError("reset", err)
	}
	if _, err := c.rpc.call(ctx, "enableApiControl", false, ""); err != nil {
		return "", c.opError("reset", err)
	}

	c.mu.Lock()
	c.initialized = false
	c.mu.Unlock()
	return "vehicle reset", nil
}

// CaptureImage fetches one compressed frame from the front-center camera.
func (c *AirSimController) CaptureImage(ctx context.Context) ([]byte, error) {
	ctx, cancel := c.opContext(ctx)
	defer cancel()

	raw, err := c.rpc.call(ctx, "simGetImage", "0", 0, "")
	if err != nil {
		return nil, c.opError("capture_image", err)
	}
	switch data := raw.(type) {
	case []byte:
		return data, nil
	case string:
		return []byte(data), nil
	default:
		return nil, types.NewError(types.VEHICLE_OP_FAILED, "bridge returned no image data")
	}
}

func (c *AirSimController) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}

func (c *AirSimController) requireArmed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return types.NewError(types.VEHICLE_UNREACHABLE, "AirSim bridge not connected")
	}
	if !c.initialized {
		return types.NewError(types.VEHICLE_NOT_ARMED,
			"vehicle is not initialized; send the initialize command first")
	}
	return nil
}

func (c *AirSimController) opError(op string, err error) error {
	return types.WrapError(types.VEHICLE_OP_FAILED, fmt.Sprintf("%s failed", op), err)
}
