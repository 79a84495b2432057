package messaging

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// NatsServerOpt adjusts the embedded server before it is created.
type NatsServerOpt func(*NatsServer) error

// WithStartTimeout bounds how long Start waits for the server to accept clients.
func WithStartTimeout(d time.Duration) NatsServerOpt {
	return func(n *NatsServer) error {
		if d <= 0 {
			return fmt.Errorf("start timeout must be positive, got %s", d)
		}
		n.startupTimeout = d
		return nil
	}
}

// WithListenAddr sets where the server accepts clients, as "host:port". A
// port of -1 picks a random free port.
func WithListenAddr(addr string) NatsServerOpt {
	return func(n *NatsServer) error {
		host, rawPort, err := net.SplitHostPort(addr)
		if err != nil {
			return fmt.Errorf("parsing listen address %q: %w", addr, err)
		}
		port, err := strconv.Atoi(rawPort)
		if err != nil || port < server.RANDOM_PORT || port > 65535 {
			return fmt.Errorf("listen address %q has an invalid port", addr)
		}
		if host != "" {
			n.serverOpts.Host = host
		}
		n.serverOpts.Port = port
		return nil
	}
}

// WithMaxPayload caps the size of a single message in bytes.
func WithMaxPayload(bytes int32) NatsServerOpt {
	return func(n *NatsServer) error {
		if bytes <= 0 {
			return fmt.Errorf("max payload must be positive, got %d", bytes)
		}
		n.serverOpts.MaxPayload = bytes
		return nil
	}
}

// WithClientName names the in-process client connection, as shown in the
// server's connection list.
func WithClientName(name string) NatsServerOpt {
	return func(n *NatsServer) error {
		n.clientName = name
		return nil
	}
}
