package commands

import (
	"context"
	"fmt"

	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/inventory"
)

// ItemCatalog resolves item uris against the loaded definitions.
type ItemCatalog interface {
	Definition(uri string) *catalog.ItemDef
	Resolve(uri string) (*inventory.Item, bool)
	List(prefixes ...string) []string
	Search(substr string) []string
}

// Transactor runs fn while no transfer can touch any container.
type Transactor interface {
	Do(fn func() error) error
}

const defaultGiveMessage = `You received {{ if eq .Amount 1 }}an item{{ else }}{{ .Amount }} items{{ end }} of {{ .Name }}.`

// GiveData is available to the give message template.
type GiveData struct {
	Uri    string
	Name   string
	Amount int
}

// GiveHandlerFactory creates items out of thin air into the actor's inventory.
// Config:
//   - item (required): uri of the item to create
//   - amount (optional): number of units, defaults to 1
//   - message (optional): template for the confirmation, gets GiveData
type GiveHandlerFactory struct {
	items ItemCatalog
	world Transactor
	pub   ActorPublisher
}

func NewGiveHandlerFactory(items ItemCatalog, world Transactor, pub ActorPublisher) *GiveHandlerFactory {
	return &GiveHandlerFactory{items: items, world: world, pub: pub}
}

func (f *GiveHandlerFactory) ValidateConfig(config map[string]any) error {
	if err := requireString(config, "item"); err != nil {
		return err
	}
	return validateTemplate(config, "message")
}

func (f *GiveHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		uri := cmdCtx.Config["item"]
		amount, err := configInt(cmdCtx, "amount", 1)
		if err != nil {
			return err
		}
		if amount < 1 {
			return NewUserError("Requested zero (0) items!")
		}

		def := f.items.Definition(uri)
		if def == nil {
			return NewUserError(fmt.Sprintf("Could not find an item matching %q", uri))
		}

		actor := cmdCtx.Actor()
		received, err := giveUnits(f.world, f.items, actor.Id, actor.Inventory, uri, amount)
		if err != nil {
			return err
		}
		if received == 0 {
			return NewUserError("Your inventory is full.")
		}

		msg, err := render(cmdCtx, "message", defaultGiveMessage, &GiveData{Uri: uri, Name: def.Name, Amount: received})
		if err != nil {
			return fmt.Errorf("rendering message: %w", err)
		}
		return tell(f.pub, cmdCtx, msg)
	}, nil
}

// giveUnits creates amount units of uri one at a time and gives each to inv,
// stopping at the first unit that does not fit. It returns the units placed.
func giveUnits(w Transactor, items ItemCatalog, instigator string, inv *inventory.Container, uri string, amount int) (int, error) {
	received := 0
	err := w.Do(func() error {
		for range amount {
			item, ok := items.Resolve(uri)
			if !ok {
				return fmt.Errorf("resolving %q", uri)
			}
			n := inventory.Give(instigator, inv, item)
			if n == 0 {
				item.Destroy()
				break
			}
			received += n
		}
		return nil
	})
	return received, err
}
