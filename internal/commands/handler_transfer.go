package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pixil98/go-inventory/internal/protocol"
)

const defaultTransferTimeout = 5 * time.Second

// await waits for the authority's answer on a submitted transfer. A transfer
// that is not answered in time is forgotten.
func await(ctx context.Context, t Transferer, pending *protocol.Pending, timeout time.Duration, err error) error {
	if errors.Is(err, protocol.ErrPredictedFailure) {
		return NewUserError("That won't go there.")
	}
	if err != nil {
		return fmt.Errorf("submitting transfer: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	accepted, err := pending.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Forget(pending.ChangeId)
		return NewUserError("The inventory did not answer in time.")
	}
	if err != nil {
		t.Forget(pending.ChangeId)
		return err
	}
	if !accepted {
		return NewUserError("That won't go there.")
	}
	return nil
}

type transferFactory struct {
	items   ItemCatalog
	world   World
	pub     ActorPublisher
	timeout time.Duration
}

func newTransferFactory(items ItemCatalog, w World, pub ActorPublisher) transferFactory {
	return transferFactory{items: items, world: w, pub: pub, timeout: defaultTransferTimeout}
}

func (f *transferFactory) confirm(cmdCtx *CommandContext, fallback string) error {
	msg, err := render(cmdCtx, "message", fallback, cmdCtx)
	if err != nil {
		return fmt.Errorf("rendering message: %w", err)
	}
	return tell(f.pub, cmdCtx, msg)
}

// MoveHandlerFactory moves or swaps a whole slot. Slots are addressed as
// "[where:]slot", where is "ground" or the inventory slot of a container
// item, and a bare slot is in the actor's inventory.
// Config:
//   - from (required): address to take from
//   - to (required): address to put into
type MoveHandlerFactory struct {
	transferFactory
}

func NewMoveHandlerFactory(items ItemCatalog, w World, pub ActorPublisher) *MoveHandlerFactory {
	return &MoveHandlerFactory{newTransferFactory(items, w, pub)}
}

func (f *MoveHandlerFactory) ValidateConfig(config map[string]any) error {
	if err := requireString(config, "from"); err != nil {
		return err
	}
	return requireString(config, "to")
}

func (f *MoveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		from, fromSlot, err := resolveSlot(f.world, f.items, cmdCtx, "from")
		if err != nil {
			return err
		}
		to, toSlot, err := resolveSlot(f.world, f.items, cmdCtx, "to")
		if err != nil {
			return err
		}

		t := cmdCtx.Session.Transfers
		pending, err := t.Move(from, fromSlot, to, toSlot)
		if err = await(ctx, t, pending, f.timeout, err); err != nil {
			return err
		}
		return f.confirm(cmdCtx, "Moved.")
	}, nil
}

// SplitHandlerFactory moves part of a stack into another slot.
// Config:
//   - from (required): address to take from
//   - to (required): address to put into
//   - amount (required): units to move
type SplitHandlerFactory struct {
	transferFactory
}

func NewSplitHandlerFactory(items ItemCatalog, w World, pub ActorPublisher) *SplitHandlerFactory {
	return &SplitHandlerFactory{newTransferFactory(items, w, pub)}
}

func (f *SplitHandlerFactory) ValidateConfig(config map[string]any) error {
	for _, key := range []string{"from", "to", "amount"} {
		if err := requireString(config, key); err != nil {
			return err
		}
	}
	return nil
}

func (f *SplitHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		amount, err := configInt(cmdCtx, "amount", 0)
		if err != nil {
			return err
		}
		if amount < 1 {
			return NewUserError("Requested zero (0) items!")
		}
		from, fromSlot, err := resolveSlot(f.world, f.items, cmdCtx, "from")
		if err != nil {
			return err
		}
		to, toSlot, err := resolveSlot(f.world, f.items, cmdCtx, "to")
		if err != nil {
			return err
		}

		t := cmdCtx.Session.Transfers
		pending, err := t.MoveAmount(from, fromSlot, to, toSlot, amount)
		if err = await(ctx, t, pending, f.timeout, err); err != nil {
			return err
		}
		return f.confirm(cmdCtx, "Split.")
	}, nil
}

// StashHandlerFactory spreads a slot over a list of target slots. The
// target "where:" with no slots means every slot of that container.
// Config:
//   - from (required): address to take from
//   - to (required): target address, slots space or comma separated
type StashHandlerFactory struct {
	transferFactory
}

func NewStashHandlerFactory(items ItemCatalog, w World, pub ActorPublisher) *StashHandlerFactory {
	return &StashHandlerFactory{newTransferFactory(items, w, pub)}
}

func (f *StashHandlerFactory) ValidateConfig(config map[string]any) error {
	if err := requireString(config, "from"); err != nil {
		return err
	}
	return requireString(config, "to")
}

func (f *StashHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		from, fromSlot, err := resolveSlot(f.world, f.items, cmdCtx, "from")
		if err != nil {
			return err
		}
		to, err := resolveAddress(f.world, f.items, cmdCtx, "to", true)
		if err != nil {
			return err
		}

		t := cmdCtx.Session.Transfers
		pending, err := t.MoveToSlots(from, fromSlot, to.container, to.slots)
		if err = await(ctx, t, pending, f.timeout, err); err != nil {
			return err
		}
		return f.confirm(cmdCtx, "Stashed.")
	}, nil
}
