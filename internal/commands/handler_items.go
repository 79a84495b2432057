package commands

import (
	"context"
	"strings"

	"github.com/pixil98/go-inventory/internal/display"
)

// ItemsHandlerFactory lists the known item uris.
// Config:
//   - prefix (optional): space separated uri prefixes to filter by
type ItemsHandlerFactory struct {
	items ItemCatalog
	pub   ActorPublisher
}

func NewItemsHandlerFactory(items ItemCatalog, pub ActorPublisher) *ItemsHandlerFactory {
	return &ItemsHandlerFactory{items: items, pub: pub}
}

func (f *ItemsHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *ItemsHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		prefixes := strings.Fields(cmdCtx.Config["prefix"])
		uris := f.items.List(prefixes...)
		if len(uris) == 0 {
			return NewUserError("No items match.")
		}
		return tell(f.pub, cmdCtx, display.Wrap(strings.Join(uris, ", ")))
	}, nil
}
