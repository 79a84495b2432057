package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"syscall"

	"github.com/iammegalith/telnet"
	"github.com/iammegalith/telnet/options"
)

// TelnetListener serves sessions to plain telnet clients.
type TelnetListener struct {
	port     uint16
	cm       *ConnectionManager
	settings listenerSettings
}

func NewTelnetListener(port uint16, cm *ConnectionManager, opts ...ListenerOpt) *TelnetListener {
	return &TelnetListener{
		port:     port,
		cm:       cm,
		settings: newListenerSettings(opts),
	}
}

func (l *TelnetListener) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if errors.Is(err, syscall.EADDRINUSE) {
		return fmt.Errorf("port %d is already in use (another server running?)", l.port)
	}
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	handler := newTelnetHandler(l.cm.AcceptConnection, l.settings.maxConns)
	srv := telnet.NewServer(ln.Addr().String(), handler, options.SuppressGoAheadOption)
	slog.InfoContext(ctx, "listening for telnet", "addr", ln.Addr().String(), "max_connections", l.settings.maxConns)

	// Closing the listener ends Serve.
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	err = srv.Serve(ln)
	handler.conns.shutdown()
	if ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("serving telnet on port %d: %w", l.port, err)
}

type telnetHandler struct {
	accept func(context.Context, io.ReadWriter)
	conns  *connTracker
}

func newTelnetHandler(accept func(context.Context, io.ReadWriter), maxConns int) *telnetHandler {
	return &telnetHandler{accept: accept, conns: newConnTracker(maxConns)}
}

// HandleTelnet serves one client. The telnet server closes the connection
// once this returns.
func (h *telnetHandler) HandleTelnet(conn *telnet.Connection) {
	rw := newCRLFReadWriter(conn)
	log := slog.With("listener", "telnet", "remote", conn.RemoteAddr().String())

	id, ok := h.conns.acquire()
	if !ok {
		log.Warn("refusing telnet connection", "open", h.conns.count())
		if _, err := io.WriteString(rw, serverFullMessage); err != nil {
			log.Debug("telling client the server is full", "error", err)
		}
		return
	}
	defer h.conns.release()

	log = log.With("conn", id)
	log.Info("telnet connection established")
	h.accept(h.conns.ctx, rw)
	log.Info("telnet connection ended")
}
