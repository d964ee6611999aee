package reporter

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Listen binds a UDP socket to endpoint with SO_REUSEADDR enabled so a
// restarted process can reclaim the port immediately.
func Listen(ctx context.Context, endpoint Endpoint) (*net.UDPConn, error) {
	lc := net.ListenConfig{Control: controlReuseAddr}

	pc, err := lc.ListenPacket(ctx, "udp", endpoint.String())
	if err != nil {
		return nil, &BindError{Endpoint: endpoint, Err: err}
	}

	conn, ok := pc.(*net.UDPConn)
	if !ok {
		_ = pc.Close()
		return nil, &BindError{Endpoint: endpoint, Err: fmt.Errorf("unexpected packet conn type %T", pc)}
	}
	return conn, nil
}

// isTransient reports whether a receive error should be retried.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return isTransientErrno(err)
}
