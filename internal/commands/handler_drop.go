package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/world"
)

const defaultDropMessage = `You drop {{ if eq .Amount 1 }}an item{{ else }}{{ .Amount }} items{{ end }} of {{ .Name }}.`

// DropHandlerFactory puts items from the actor's inventory on the ground.
// Units that find no room on the ground stay with the actor.
// Config:
//   - what (required): a slot number, or an item uri gathered from the last
//     matching slot first
//   - amount (optional): units to drop, defaults to the whole slot or to 1
//     for an item uri
//   - message (optional): template for the confirmation, gets GiveData
type DropHandlerFactory struct {
	items ItemCatalog
	world World
	pub   ActorPublisher
}

func NewDropHandlerFactory(items ItemCatalog, w World, pub ActorPublisher) *DropHandlerFactory {
	return &DropHandlerFactory{items: items, world: w, pub: pub}
}

func (f *DropHandlerFactory) ValidateConfig(config map[string]any) error {
	if err := requireString(config, "what"); err != nil {
		return err
	}
	return validateTemplate(config, "message")
}

func (f *DropHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		what := strings.TrimSpace(cmdCtx.Config["what"])
		actor := cmdCtx.Actor()

		data := &GiveData{}
		err := f.world.Do(func() error {
			ground, err := f.world.Container(world.GroundId)
			if err != nil {
				return NewUserError("There is no ground here.")
			}

			taken, err := f.take(cmdCtx, actor, what, data)
			if err != nil {
				return err
			}

			count := int(taken.Count)
			data.Amount = inventory.Give(actor.Id, ground, taken)
			if data.Amount < count {
				back := inventory.Give(actor.Id, actor.Inventory, taken)
				if lost := count - data.Amount - back; lost > 0 {
					slog.Warn("dropped units found no place", "actor", actor.Id, "item", taken.DefinitionId, "lost", lost)
					taken.Destroy()
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		if data.Amount == 0 {
			return NewUserError("There is no room on the ground.")
		}

		msg, err := render(cmdCtx, "message", defaultDropMessage, data)
		if err != nil {
			return fmt.Errorf("rendering message: %w", err)
		}
		return tell(f.pub, cmdCtx, msg)
	}, nil
}

// take removes the units to drop from the actor's inventory. Call it inside Do.
func (f *DropHandlerFactory) take(cmdCtx *CommandContext, actor *world.ActorState, what string, data *GiveData) (*inventory.Item, error) {
	inv := actor.Inventory

	if n, err := strconv.Atoi(what); err == nil {
		if n < 1 {
			return nil, NewUserError("Slots are numbered from 1.")
		}
		item := inv.Get(n - 1)
		if item == nil {
			return nil, NewUserError("That slot is empty.")
		}
		amount, err := configInt(cmdCtx, "amount", int(item.Count))
		if err != nil {
			return nil, err
		}
		if amount < 1 {
			return nil, NewUserError("Requested zero (0) items!")
		}
		if amount > int(item.Count) {
			return nil, NewUserError(fmt.Sprintf("You only have %d in that slot.", item.Count))
		}

		data.Uri, data.Name = item.DefinitionId, f.name(item.DefinitionId)
		taken, ok := inventory.Remove(actor.Id, inv, n-1, amount, false)
		if !ok {
			return nil, NewUserError("You can't let go of that.")
		}
		return taken, nil
	}

	amount, err := configInt(cmdCtx, "amount", 1)
	if err != nil {
		return nil, err
	}
	if amount < 1 {
		return nil, NewUserError("Requested zero (0) items!")
	}

	data.Uri, data.Name = what, f.name(what)
	var slots []int
	for slot := inv.SlotCount() - 1; slot >= 0; slot-- {
		if item := inv.Get(slot); item != nil && item.DefinitionId == what {
			slots = append(slots, slot)
		}
	}
	removed, taken := inventory.RemoveAcross(actor.Id, inv, slots, amount, false)
	if removed == 0 {
		return nil, NewUserError(fmt.Sprintf("You don't have any %s.", data.Name))
	}
	return taken, nil
}

func (f *DropHandlerFactory) name(uri string) string {
	if def := f.items.Definition(uri); def != nil {
		return def.Name
	}
	return uri
}
