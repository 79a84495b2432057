package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pixil98/go-inventory/internal"
	"github.com/pixil98/go-inventory/internal/commands"
	"github.com/pixil98/go-inventory/internal/world"
)

type session struct {
	rw    *internal.LineReadWriter
	world *world.State
	cmds  *commands.Handler
	actor *world.ActorState
	msgs  <-chan []byte
	ctx   *commands.Session
}

type line struct {
	text string
	err  error
}

func (s *session) play(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)

	input := make(chan line)
	go func() {
		for {
			text, err := s.rw.ReadLine()
			select {
			case input <- line{text: text, err: err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	if err := s.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.actor.Done():
			s.drain()
			return s.writeLine("\nDisconnected.")

		case msg := <-s.msgs:
			if err := s.write("\n" + string(msg)); err != nil {
				return err
			}
			if err := s.prompt(); err != nil {
				return err
			}

		case in := <-input:
			if in.err == io.EOF {
				s.drain()
				return nil
			}
			if in.err != nil {
				return in.err
			}

			s.world.MarkActorActive(s.actor.Id)

			quit, err := s.exec(ctx, in.text)
			if err != nil {
				return err
			}
			if quit {
				s.drain()
				return s.writeLine("Goodbye!")
			}
			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

// exec runs one input line and reports whether the actor asked to quit.
func (s *session) exec(ctx context.Context, text string) (bool, error) {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return false, nil
	}

	err := s.cmds.Exec(ctx, s.ctx, parts[0], parts[1:]...)
	if userErr, ok := commands.AsUserError(err); ok {
		if err := s.writeLine(userErr.Message); err != nil {
			return false, err
		}
	} else if err != nil {
		slog.ErrorContext(ctx, "command failed", "actor", s.actor.Id, "command", parts[0], "error", err)
		if err := s.writeLine("Something went wrong."); err != nil {
			return false, err
		}
	}

	return s.world.ActorQuit(s.actor.Id), nil
}

// drain writes out messages that are already queued.
func (s *session) drain() {
	for {
		select {
		case msg := <-s.msgs:
			if err := s.write(string(msg)); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (s *session) prompt() error {
	return s.write(fmt.Sprintf("[%d/%d] > ", s.used(), s.actor.Inventory.SlotCount()))
}

func (s *session) used() int {
	n := 0
	_ = s.world.Do(func() error {
		for _, item := range s.actor.Inventory.Items() {
			if item != nil {
				n++
			}
		}
		return nil
	})
	return n
}

func (s *session) write(msg string) error {
	_, err := io.WriteString(s.rw, msg)
	return err
}

func (s *session) writeLine(msg string) error {
	return s.write(msg + "\n")
}
