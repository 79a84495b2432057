package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pixil98/go-inventory/internal/display"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/world"
)

const groundAddress = "ground"

// World is the part of the world state that commands reach into.
type World interface {
	Transactor
	Container(id string) (*inventory.Container, error)
	GetActor(id string) *world.ActorState
	SelectSlot(id string, slot int) error
	SelectedSlot(id string) int
}

// place is a container a player has named, with how to refer to it.
type place struct {
	container *inventory.Container
	own       bool
	title     string
}

// splitAddress splits a "where:slots" address. Without a colon the whole
// input names slots in the actor's own inventory.
func splitAddress(raw string) (where, slots string) {
	where, slots, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return "", where
	}
	return strings.ToLower(strings.TrimSpace(where)), strings.TrimSpace(slots)
}

// locate finds the container where refers to: the actor's inventory when
// empty, the ground, or the contents of the item in one of the actor's
// inventory slots. Call it inside Do.
func locate(w World, items ItemCatalog, actor *world.ActorState, where string) (*place, error) {
	switch where {
	case "":
		return &place{container: actor.Inventory, own: true, title: "your inventory"}, nil
	case groundAddress:
		ground, err := w.Container(world.GroundId)
		if err != nil {
			return nil, NewUserError("There is no ground here.")
		}
		return &place{container: ground, title: "the ground"}, nil
	}

	n, err := strconv.Atoi(where)
	if err != nil {
		return nil, NewUserError(fmt.Sprintf("There is no %q to reach into.", where))
	}
	if n < 1 {
		return nil, NewUserError("Slots are numbered from 1.")
	}
	item := actor.Inventory.Get(n - 1)
	if item == nil || item.Contents == nil {
		return nil, NewUserError(fmt.Sprintf("Slot %d does not hold a container.", n))
	}
	c, err := w.Container(item.Contents.Id())
	if err != nil {
		return nil, fmt.Errorf("finding contents of slot %d: %w", n, err)
	}
	return &place{container: c, title: "your " + itemTitle(items, item)}, nil
}

// address is a resolved container and the slots named in it.
type address struct {
	container string
	slots     []int
}

// resolveAddress reads a "[where:]slots" config value. An address naming a
// container but no slots means every slot of that container when allowAll
// is set.
func resolveAddress(w World, items ItemCatalog, cmdCtx *CommandContext, key string, allowAll bool) (*address, error) {
	where, rest := splitAddress(cmdCtx.Config[key])
	slots, err := parseSlots(rest)
	if err != nil {
		return nil, err
	}

	addr := &address{slots: slots}
	err = w.Do(func() error {
		p, err := locate(w, items, cmdCtx.Actor(), where)
		if err != nil {
			return err
		}
		addr.container = p.container.Id()
		if len(addr.slots) == 0 && allowAll && !p.own {
			for slot := range p.container.SlotCount() {
				addr.slots = append(addr.slots, slot)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(addr.slots) == 0 {
		return nil, NewUserError("Name at least one slot.")
	}
	return addr, nil
}

// resolveSlot is resolveAddress for exactly one slot.
func resolveSlot(w World, items ItemCatalog, cmdCtx *CommandContext, key string) (string, int, error) {
	addr, err := resolveAddress(w, items, cmdCtx, key, false)
	if err != nil {
		return "", 0, err
	}
	if len(addr.slots) != 1 {
		return "", 0, NewUserError("Name a single slot.")
	}
	return addr.container, addr.slots[0], nil
}

func itemTitle(items ItemCatalog, item *inventory.Item) string {
	if def := items.Definition(item.DefinitionId); def != nil {
		return display.Title(def.Name)
	}
	return item.Name()
}
