package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-inventory/internal/display"
)

// InventoryHandlerFactory lists the slots of the actor's inventory, the
// ground, or a container item the actor holds.
// Config:
//   - where (optional): "ground" or the inventory slot of a container item
type InventoryHandlerFactory struct {
	items ItemCatalog
	world World
	pub   ActorPublisher
}

func NewInventoryHandlerFactory(items ItemCatalog, w World, pub ActorPublisher) *InventoryHandlerFactory {
	return &InventoryHandlerFactory{items: items, world: w, pub: pub}
}

func (f *InventoryHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *InventoryHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		where := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(cmdCtx.Config["where"]), ":"))

		actor := cmdCtx.Actor()
		selected := f.world.SelectedSlot(actor.Id)

		var out string
		err := f.world.Do(func() error {
			p, err := locate(f.world, f.items, actor, where)
			if err != nil {
				return err
			}
			out = f.describe(p, selected)
			return nil
		})
		if err != nil {
			return err
		}
		return tell(f.pub, cmdCtx, out)
	}, nil
}

func (f *InventoryHandlerFactory) describe(p *place, selected int) string {
	c := p.container
	used := 0
	var lines []string
	for slot := range c.SlotCount() {
		item := c.Get(slot)
		if item == nil {
			continue
		}
		used++

		line := fmt.Sprintf("%d. %s", slot+1, itemTitle(f.items, item))
		if item.Count > 1 {
			line += fmt.Sprintf(" x%d", item.Count)
		}
		if item.Contents != nil {
			n := item.Contents.Total()
			line += fmt.Sprintf(" (holds %d %s)", n, plural(n, "item", "items"))
		}
		if p.own && slot == selected {
			line += " (in hand)"
		}
		lines = append(lines, line)
	}

	var sb strings.Builder
	if p.own {
		fmt.Fprintf(&sb, "You are carrying (%d/%d slots used):\n", used, c.SlotCount())
	} else {
		fmt.Fprintf(&sb, "%s holds (%d/%d slots used):\n", display.Capitalize(p.title), used, c.SlotCount())
	}
	if len(lines) == 0 {
		sb.WriteString(display.WrapIndented("Nothing.", 2))
		return sb.String()
	}
	sb.WriteString(display.WrapIndented(strings.Join(lines, "\n"), 2))
	return sb.String()
}
