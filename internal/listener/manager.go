package listener

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// SessionRunner serves one connection until it ends.
type SessionRunner interface {
	RunSession(ctx context.Context, conn io.ReadWriter) error
}

type ConnectionManager struct {
	sessions SessionRunner
}

func NewConnectionManager(sessions SessionRunner) *ConnectionManager {
	return &ConnectionManager{
		sessions: sessions,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn io.ReadWriter) {
	if err := m.sessions.RunSession(ctx, conn); err != nil {
		slog.WarnContext(ctx, "inventory session", "error", err)
	}
}

const serverFullMessage = "The server is full, try again later.\n"

// ListenerOpt configures a telnet or ssh listener.
type ListenerOpt func(*listenerSettings)

type listenerSettings struct {
	maxConns int
}

// WithMaxConnections caps how many clients a listener serves at once.
// Zero leaves it uncapped.
func WithMaxConnections(n int) ListenerOpt {
	return func(s *listenerSettings) {
		s.maxConns = n
	}
}

func newListenerSettings(opts []ListenerOpt) listenerSettings {
	var s listenerSettings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// connTracker hands out connection ids, enforces the connection cap and
// ends every open connection on shutdown.
type connTracker struct {
	max    int
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	nextId uint64
	open   int
	closed bool
}

func newConnTracker(max int) *connTracker {
	ctx, cancel := context.WithCancel(context.Background())
	return &connTracker{max: max, ctx: ctx, cancel: cancel}
}

// acquire reserves room for a connection. It fails when the listener is full
// or shutting down.
func (t *connTracker) acquire() (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || (t.max > 0 && t.open >= t.max) {
		return 0, false
	}
	t.nextId++
	t.open++
	t.wg.Add(1)
	return t.nextId, true
}

func (t *connTracker) release() {
	t.mu.Lock()
	t.open--
	t.mu.Unlock()
	t.wg.Done()
}

func (t *connTracker) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open
}

// shutdown cancels every connection's context and waits for them to end.
func (t *connTracker) shutdown() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
}
