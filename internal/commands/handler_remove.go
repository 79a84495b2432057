package commands

import (
	"context"
	"fmt"

	"github.com/pixil98/go-inventory/internal/inventory"
)

const defaultRemoveMessage = `Removed {{ if eq .Amount 1 }}an item{{ else }}{{ .Amount }} items{{ end }} of {{ .Name }}.`

// RemoveHandlerFactory destroys units of an item held by the actor, taking
// them from the last matching slot first.
// Config:
//   - item (required): uri of the item to remove
//   - amount (optional): number of units, defaults to 1
//   - message (optional): template for the confirmation, gets GiveData
type RemoveHandlerFactory struct {
	items ItemCatalog
	world Transactor
	pub   ActorPublisher
}

func NewRemoveHandlerFactory(items ItemCatalog, world Transactor, pub ActorPublisher) *RemoveHandlerFactory {
	return &RemoveHandlerFactory{items: items, world: world, pub: pub}
}

func (f *RemoveHandlerFactory) ValidateConfig(config map[string]any) error {
	if err := requireString(config, "item"); err != nil {
		return err
	}
	return validateTemplate(config, "message")
}

func (f *RemoveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		uri := cmdCtx.Config["item"]
		amount, err := configInt(cmdCtx, "amount", 1)
		if err != nil {
			return err
		}
		if amount < 1 {
			return NewUserError("Requested zero (0) items!")
		}

		name := uri
		if def := f.items.Definition(uri); def != nil {
			name = def.Name
		}

		actor := cmdCtx.Actor()
		inv := actor.Inventory

		removed := 0
		err = f.world.Do(func() error {
			var slots []int
			for slot := inv.SlotCount() - 1; slot >= 0; slot-- {
				if item := inv.Get(slot); item != nil && item.DefinitionId == uri {
					slots = append(slots, slot)
				}
			}
			removed, _ = inventory.RemoveAcross(actor.Id, inv, slots, amount, true)
			return nil
		})
		if err != nil {
			return err
		}
		if removed == 0 {
			return NewUserError(fmt.Sprintf("You don't have any %s.", name))
		}

		msg, err := render(cmdCtx, "message", defaultRemoveMessage, &GiveData{Uri: uri, Name: name, Amount: removed})
		if err != nil {
			return fmt.Errorf("rendering message: %w", err)
		}
		return tell(f.pub, cmdCtx, msg)
	}, nil
}
