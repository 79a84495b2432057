package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// NatsServer runs an embedded NATS server together with the in-process
// client connection every publisher and subscriber shares.
type NatsServer struct {
	ns    *server.Server
	conn  *nats.Conn
	ready chan struct{}

	startupTimeout time.Duration
	clientName     string
	serverOpts     server.Options
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		ready:          make(chan struct{}),
		startupTimeout: 10 * time.Second,
		clientName:     "inventory",
		serverOpts: server.Options{
			Host:   "127.0.0.1",
			NoSigs: true, // Let the application handle signals
		},
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying nats option: %w", err)
		}
	}

	ns, err := server.NewServer(&s.serverOpts)
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	conn, err := nats.Connect(n.ns.ClientURL(), nats.Name(n.clientName))
	if err != nil {
		n.ns.Shutdown()
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	n.conn = conn
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()
	if err := n.conn.Drain(); err != nil {
		slog.WarnContext(ctx, "draining nats connection", "error", err)
	}
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Ready is closed once Subscribe and Publish can be used.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// WaitReady blocks until the server accepts clients or ctx ends.
func (n *NatsServer) WaitReady(ctx context.Context) error {
	select {
	case <-n.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe creates a subscription on the given subject.
// Returns an unsubscribe function to remove the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	if n.conn == nil {
		return nil, fmt.Errorf("nats server not started")
	}
	sub, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil && err != nats.ErrConnectionClosed {
			slog.Warn("unsubscribing", "subject", subject, "error", err)
		}
	}, nil
}

// Publish sends a message to the given subject
func (n *NatsServer) Publish(subject string, data []byte) error {
	if n.conn == nil {
		return fmt.Errorf("nats server not started")
	}
	return n.conn.Publish(subject, data)
}

// Flush waits until the server has processed everything published so far.
func (n *NatsServer) Flush() error {
	if n.conn == nil {
		return fmt.Errorf("nats server not started")
	}
	return n.conn.Flush()
}
