// Package netutil waits for services on freshly created nodes.
package netutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// WebUIWaitTimeout bounds how long a new master may take to install the
// tool and start serving its web UI.
const WebUIWaitTimeout = 15 * time.Minute

// dialTimeout caps a single connection attempt.
const dialTimeout = 2 * time.Second

// PollInterval is the pause between connection attempts.
var PollInterval = 5 * time.Second

// WaitForPort waits for a TCP port to accept connections on host.
// It dials once immediately and then every PollInterval until the port is
// open, timeout elapses or ctx is cancelled.
func WaitForPort(ctx context.Context, host string, port int, timeout time.Duration) error {
	address := net.JoinHostPort(host, strconv.Itoa(port))

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	var dialer net.Dialer
	for {
		dialCtx, dialCancel := context.WithTimeout(ctx, dialTimeout)
		conn, err := dialer.DialContext(dialCtx, "tcp", address)
		dialCancel()
		if err == nil {
			_ = conn.Close()
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("timeout waiting for %s: %w", address, err)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
