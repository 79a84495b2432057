package commands

import (
	"context"
	"fmt"
	"strings"
)

// PassHandlerFactory hands the stack in one of the actor's slots to another
// connected actor. The units go wherever they fit in the receiver's
// inventory, and any that do not fit stay put.
// Config:
//   - from (required): slot to hand over, counting from 1
//   - to (required): id of the receiving actor
type PassHandlerFactory struct {
	transferFactory
}

func NewPassHandlerFactory(items ItemCatalog, w World, pub ActorPublisher) *PassHandlerFactory {
	return &PassHandlerFactory{newTransferFactory(items, w, pub)}
}

func (f *PassHandlerFactory) ValidateConfig(config map[string]any) error {
	if err := requireString(config, "from"); err != nil {
		return err
	}
	return requireString(config, "to")
}

func (f *PassHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		from, err := configSlot(cmdCtx, "from")
		if err != nil {
			return err
		}
		actor := cmdCtx.Actor()
		to := strings.ToLower(strings.TrimSpace(cmdCtx.Config["to"]))
		if to == actor.Id {
			return NewUserError("You already have it.")
		}
		receiver := f.world.GetActor(to)
		if receiver == nil {
			return NewUserError(fmt.Sprintf("There is nobody called %s here.", to))
		}

		var name string
		var before int
		var toSlots []int
		err = f.world.Do(func() error {
			item := actor.Inventory.Get(from)
			if item == nil {
				return NewUserError("That slot is empty.")
			}
			name, before = itemTitle(f.items, item), int(item.Count)
			for slot := range receiver.Inventory.SlotCount() {
				toSlots = append(toSlots, slot)
			}
			return nil
		})
		if err != nil {
			return err
		}

		t := cmdCtx.Session.Transfers
		pending, err := t.MoveToSlots(actor.Inventory.Id(), from, receiver.Inventory.Id(), toSlots)
		if err = await(ctx, t, pending, f.timeout, err); err != nil {
			return err
		}

		passed := before
		_ = f.world.Do(func() error {
			if left := actor.Inventory.Get(from); left != nil && left.Count < uint8(before) {
				passed = before - int(left.Count)
			}
			return nil
		})

		if err := f.pub.PublishToActor(receiver.Id, []byte(fmt.Sprintf("%s passes you %s.\n", actor.Id, unitsOf(passed, name)))); err != nil {
			return fmt.Errorf("telling %s: %w", receiver.Id, err)
		}
		return tell(f.pub, cmdCtx, fmt.Sprintf("You pass %s to %s.", unitsOf(passed, name), receiver.Id))
	}, nil
}
