package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/world"
)

const defaultUseMessage = `{{ if .Consumed }}You use up one {{ .Name }}{{ if .Left }}, {{ .Left }} left{{ end }}.{{ else }}You use the {{ .Name }}.{{ end }}`

// UseData is handed to the use message template.
type UseData struct {
	Uri      string
	Name     string
	Slot     int
	Consumed bool
	Left     int
}

// UseHandlerFactory uses the item in a slot, or in the slot the actor holds
// in hand. Items consumed on use lose one unit.
// Config:
//   - slot (optional): slot to use, counting from 1
//   - message (optional): template for the confirmation, gets UseData
type UseHandlerFactory struct {
	items ItemCatalog
	world World
	pub   ActorPublisher
}

func NewUseHandlerFactory(items ItemCatalog, w World, pub ActorPublisher) *UseHandlerFactory {
	return &UseHandlerFactory{items: items, world: w, pub: pub}
}

func (f *UseHandlerFactory) ValidateConfig(config map[string]any) error {
	return validateTemplate(config, "message")
}

func (f *UseHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		actor := cmdCtx.Actor()

		slot := f.world.SelectedSlot(actor.Id)
		if strings.TrimSpace(cmdCtx.Config["slot"]) != "" {
			var err error
			if slot, err = configSlot(cmdCtx, "slot"); err != nil {
				return err
			}
		}

		data := &UseData{Slot: slot + 1}
		err := f.world.Do(func() error {
			item := actor.Inventory.Get(slot)
			if item == nil {
				return NewUserError("That slot is empty.")
			}
			data.Uri, data.Name = item.DefinitionId, item.Name()
			def := f.items.Definition(item.DefinitionId)
			if def != nil {
				data.Name = def.Name
			}
			if def == nil || !def.ConsumedOnUse {
				return nil
			}

			data.Consumed = true
			data.Left = int(item.Count) - 1
			if _, ok := inventory.Remove(actor.Id, actor.Inventory, slot, 1, true); !ok {
				return NewUserError("You can't use that right now.")
			}
			return nil
		})
		if err != nil {
			return err
		}

		msg, err := render(cmdCtx, "message", defaultUseMessage, data)
		if err != nil {
			return fmt.Errorf("rendering message: %w", err)
		}
		return tell(f.pub, cmdCtx, msg)
	}, nil
}

// SelectHandlerFactory picks the inventory slot the actor holds in hand.
// Config:
//   - slot (required): slot to hold, counting from 1
type SelectHandlerFactory struct {
	world World
	pub   ActorPublisher
}

func NewSelectHandlerFactory(w World, pub ActorPublisher) *SelectHandlerFactory {
	return &SelectHandlerFactory{world: w, pub: pub}
}

func (f *SelectHandlerFactory) ValidateConfig(config map[string]any) error {
	if err := requireString(config, "slot"); err != nil {
		return err
	}
	return validateTemplate(config, "message")
}

func (f *SelectHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		slot, err := configSlot(cmdCtx, "slot")
		if err != nil {
			return err
		}

		actor := cmdCtx.Actor()
		err = f.world.SelectSlot(actor.Id, slot)
		if errors.Is(err, world.ErrSlotOutOfRange) {
			return NewUserError(fmt.Sprintf("You only have %d slots.", actor.Inventory.SlotCount()))
		}
		if err != nil {
			return err
		}

		msg, err := render(cmdCtx, "message", "Slot {{ .Slot }} is now in hand.", map[string]int{"Slot": slot + 1})
		if err != nil {
			return fmt.Errorf("rendering message: %w", err)
		}
		return tell(f.pub, cmdCtx, msg)
	}, nil
}
