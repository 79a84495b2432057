package commands

import (
	"context"
	"fmt"
	"strings"
)

// BulkGiveHandlerFactory gives every item whose uri contains a search term.
// Config:
//   - search (required): substring matched against item uris, ignoring case
//   - amount (optional): units of each item, defaults to 1
type BulkGiveHandlerFactory struct {
	items ItemCatalog
	world Transactor
	pub   ActorPublisher
}

func NewBulkGiveHandlerFactory(items ItemCatalog, world Transactor, pub ActorPublisher) *BulkGiveHandlerFactory {
	return &BulkGiveHandlerFactory{items: items, world: world, pub: pub}
}

func (f *BulkGiveHandlerFactory) ValidateConfig(config map[string]any) error {
	return requireString(config, "search")
}

func (f *BulkGiveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		search := strings.TrimSpace(cmdCtx.Config["search"])
		if search == "" {
			return NewUserError("What should be searched for?")
		}
		amount, err := configInt(cmdCtx, "amount", 1)
		if err != nil {
			return err
		}
		if amount < 1 {
			return NewUserError("Requested zero (0) items!")
		}

		uris := f.items.Search(search)
		if len(uris) == 0 {
			return NewUserError(fmt.Sprintf("Could not find any items matching %q", search))
		}

		actor := cmdCtx.Actor()
		var sb strings.Builder
		for _, uri := range uris {
			received, err := giveUnits(f.world, f.items, actor.Id, actor.Inventory, uri, amount)
			if err != nil {
				return err
			}
			fmt.Fprintf(&sb, "  %s: %d\n", uri, received)
			if received < amount {
				sb.WriteString("Your inventory is full.\n")
				break
			}
		}

		return tell(f.pub, cmdCtx, sb.String())
	}, nil
}
