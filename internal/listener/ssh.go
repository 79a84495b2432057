package listener

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/crypto/ssh"
)

const sshServerVersion = "SSH-2.0-inventory"

// SshListener serves sessions over ssh. Clients are not authenticated; the
// session itself asks for a name.
type SshListener struct {
	port     uint16
	cm       *ConnectionManager
	hostKey  ssh.Signer
	settings listenerSettings
}

func NewSshListener(port uint16, cm *ConnectionManager, hostKey ssh.Signer, opts ...ListenerOpt) *SshListener {
	return &SshListener{
		port:     port,
		cm:       cm,
		hostKey:  hostKey,
		settings: newListenerSettings(opts),
	}
}

func (l *SshListener) serverConfig() *ssh.ServerConfig {
	config := &ssh.ServerConfig{
		NoClientAuth:  true,
		ServerVersion: sshServerVersion,
	}
	config.AddHostKey(l.hostKey)
	return config
}

func (l *SshListener) Start(ctx context.Context) error {
	config := l.serverConfig()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", l.port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", l.port, err)
	}

	slog.InfoContext(ctx, "listening for ssh", "port", l.port)

	conns := newConnTracker(l.settings.maxConns)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				conns.shutdown()
				return nil
			default:
			}
			slog.ErrorContext(ctx, "accepting ssh connection", "error", err)
			continue
		}

		if _, ok := conns.acquire(); !ok {
			slog.WarnContext(ctx, "refusing ssh connection", "remote", conn.RemoteAddr().String(), "open", conns.count())
			conn.Close()
			continue
		}
		go func() {
			defer conns.release()
			l.handleConnection(conns.ctx, conn, config)
		}()
	}
}

func (l *SshListener) handleConnection(ctx context.Context, conn net.Conn, config *ssh.ServerConfig) {
	defer conn.Close()
	log := slog.With("remote", conn.RemoteAddr().String())

	sshConn, chans, reqs, err := ssh.NewServerConn(conn, config)
	if err != nil {
		log.ErrorContext(ctx, "ssh handshake", "error", err)
		return
	}
	defer sshConn.Close()

	log.InfoContext(ctx, "ssh connection established", "client", string(sshConn.ClientVersion()))

	// Closing the connection ends the channel loop below.
	go func() {
		<-ctx.Done()
		sshConn.Close()
	}()

	go ssh.DiscardRequests(reqs)

	for newChan := range chans {
		if newChan.ChannelType() != "session" {
			newChan.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		l.serveChannel(ctx, log, newChan)
	}
}

// serveChannel runs one session once the client asked for a shell. Clients
// don't forward input until the shell request is answered.
func (l *SshListener) serveChannel(ctx context.Context, log *slog.Logger, newChan ssh.NewChannel) {
	ch, requests, err := newChan.Accept()
	if err != nil {
		log.ErrorContext(ctx, "accepting ssh channel", "error", err)
		return
	}
	defer ch.Close()

	shellReady := make(chan struct{})
	go func() {
		for req := range requests {
			switch req.Type {
			case "pty-req":
				// Rejecting the pty keeps local echo and line editing on the client.
				req.Reply(false, nil)
			case "shell":
				req.Reply(true, nil)
				close(shellReady)
			default:
				req.Reply(false, nil)
			}
		}
	}()

	select {
	case <-shellReady:
	case <-ctx.Done():
		return
	}

	l.cm.AcceptConnection(ctx, newCRLFReadWriter(ch))
}
