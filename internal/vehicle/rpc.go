package vehicle

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// rpcClient is a minimal msgpack-rpc client for the AirSim bridge, which
// speaks the classic framing: request [0, msgid, method, params], response
// [1, msgid, error, result], concatenated on one TCP stream. Calls are
// serialized; the bridge controls a single vehicle and interleaved requests
// buy nothing.
type rpcClient struct {
	mu     sync.Mutex
	conn   net.Conn
	enc    *msgpack.Encoder
	dec    *msgpack.Decoder
	nextID uint32
}

const (
	rpcTypeRequest  = 0
	rpcTypeResponse = 1
)

// dialRPC connects to a msgpack-rpc endpoint.
func dialRPC(addr string, timeout time.Duration) (*rpcClient, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return &rpcClient{
		conn: conn,
		enc:  msgpack.NewEncoder(conn),
		dec:  msgpack.NewDecoder(conn),
	}, nil
}

// call performs one request/response round trip. The context deadline, when
// present, is applied to the connection for the duration of the call.
func (c *rpcClient) call(ctx context.Context, method string, params ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
		defer c.conn.SetDeadline(time.Time{})
	}

	id := c.nextID
	c.nextID++

	if params == nil {
		params = []any{}
	}
	if err := c.enc.Encode([]any{rpcTypeRequest, id, method, params}); err != nil {
		return nil, fmt.Errorf("rpc encode %s: %w", method, err)
	}

	var resp []any
	if err := c.dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("rpc decode %s: %w", method, err)
	}
	if len(resp) != 4 {
		return nil, fmt.Errorf("rpc %s: malformed response of %d elements", method, len(resp))
	}

	msgType, _ := toInt64(resp[0])
	respID, _ := toInt64(resp[1])
	if msgType != rpcTypeResponse || respID != int64(id) {
		return nil, fmt.Errorf("rpc %s: unexpected response (type=%v id=%v)", method, resp[0], resp[1])
	}
	if resp[2] != nil {
		return nil, fmt.Errorf("rpc %s: remote error: %v", method, resp[2])
	}
	return resp[3], nil
}

// close shuts the underlying connection down.
func (c *rpcClient) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// toInt64 normalizes the integer types msgpack decoding may produce.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// toFloat64 normalizes the numeric types msgpack decoding may produce.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		if i, ok := toInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}
