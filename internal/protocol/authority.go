package protocol

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-inventory/internal/inventory"
)

// Containers is the authoritative container registry.
type Containers interface {
	Container(id string) (*inventory.Container, error)
	Do(fn func() error) error
}

// Authority applies transfer requests to the authoritative containers and
// acks every one of them.
type Authority struct {
	bus   Bus
	world Containers
}

func NewAuthority(bus Bus, world Containers) *Authority {
	return &Authority{bus: bus, world: world}
}

// Start serves requests until ctx is done.
func (a *Authority) Start(ctx context.Context) error {
	if err := waitReady(ctx, a.bus); err != nil {
		return fmt.Errorf("waiting for bus: %w", err)
	}

	unsub, err := a.bus.Subscribe(RequestSubject, a.receive)
	if err != nil {
		return fmt.Errorf("subscribing to requests: %w", err)
	}
	defer unsub()

	slog.InfoContext(ctx, "inventory authority serving", "subject", RequestSubject)
	<-ctx.Done()
	return nil
}

func (a *Authority) receive(data []byte) {
	req, err := Decode(data)
	if err != nil {
		slog.Warn("dropping malformed transfer request", "error", err)
		return
	}

	ack := a.Handle(req)

	payload, err := json.Marshal(ack)
	if err != nil {
		slog.Error("marshalling ack", "change_id", ack.ChangeId, "error", err)
		return
	}
	if err := a.bus.Publish(AckSubject(req.transfer().Instigator), payload); err != nil {
		slog.Warn("publishing ack", "change_id", ack.ChangeId, "instigator", req.transfer().Instigator, "error", err)
	}
}

// Handle applies req and reports whether it was accepted.
func (a *Authority) Handle(req Request) Ack {
	t := req.transfer()
	ack := Ack{ChangeId: t.ChangeId}

	_ = a.world.Do(func() error {
		from, err := a.world.Container(t.From)
		if err != nil {
			slog.Debug("rejecting transfer", "change_id", t.ChangeId, "error", err)
			return nil
		}
		to, err := a.world.Container(t.To)
		if err != nil {
			slog.Debug("rejecting transfer", "change_id", t.ChangeId, "error", err)
			return nil
		}

		ack.Accepted = req.apply(from, to)
		return nil
	})

	return ack
}
