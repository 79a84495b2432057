package catalog

import (
	"log/slog"

	"github.com/pixil98/go-inventory/internal/inventory"
)

// ItemResolver creates items from uris.
type ItemResolver interface {
	Resolve(uri string) (*inventory.Item, bool)
}

// Stock fills c with the kit entries and returns the number of units placed.
// Entries that cannot be honoured are logged and skipped.
func Stock(c *inventory.Container, entries []KitEntry, r ItemResolver) int {
	placed := 0

	for _, entry := range entries {
		if entry.Uri == "" {
			slog.Warn("skipping starting item without uri", "container", c.Id())
			continue
		}

		qty := entry.Amount()
		if qty <= 0 {
			slog.Warn("skipping starting item with invalid quantity", "container", c.Id(), "uri", entry.Uri, "quantity", qty)
			continue
		}

		for range qty {
			item, ok := r.Resolve(entry.Uri)
			if !ok {
				slog.Warn("unknown starting item", "container", c.Id(), "uri", entry.Uri)
				break
			}

			if len(entry.Items) > 0 {
				if item.Contents == nil {
					slog.Warn("starting item has no inventory for its items", "container", c.Id(), "uri", entry.Uri)
				} else {
					Stock(item.Contents, entry.Items, r)
				}
			}

			n := inventory.Give("", c, item)
			if n == 0 {
				slog.Warn("no room for starting item", "container", c.Id(), "uri", entry.Uri)
				item.Destroy()
				break
			}
			placed += n
		}
	}

	return placed
}
