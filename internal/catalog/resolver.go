package catalog

import (
	"maps"
	"slices"
	"strings"

	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/storage"
)

// Resolver turns item uris into fresh items using stored definitions.
type Resolver struct {
	defs storage.Storer[*ItemDef]
}

func NewResolver(defs storage.Storer[*ItemDef]) *Resolver {
	return &Resolver{defs: defs}
}

// Definition returns the definition stored under uri, or nil.
func (r *Resolver) Definition(uri string) *ItemDef {
	return r.defs.Get(uri)
}

// Resolve creates one unit of the item named by uri.
func (r *Resolver) Resolve(uri string) (*inventory.Item, bool) {
	def := r.defs.Get(uri)
	if def == nil {
		return nil, false
	}

	stackId := ""
	if def.Stackable() {
		stackId = def.StackId
	}

	item := inventory.NewItem(uri, stackId, uint8(def.maxStack()))
	if len(def.Attributes) > 0 {
		item.Attributes = maps.Clone(def.Attributes)
	}
	if def.Slots > 0 {
		item.Contents = inventory.NewContainer(item.Id(), def.Slots)
	}
	return item, true
}

// List returns the sorted uris starting with any of prefixes. No prefixes lists everything.
func (r *Resolver) List(prefixes ...string) []string {
	var out []string
	for _, uri := range r.uris() {
		if len(prefixes) == 0 || slices.ContainsFunc(prefixes, func(p string) bool { return strings.HasPrefix(uri, p) }) {
			out = append(out, uri)
		}
	}
	return out
}

// Search returns the sorted uris containing substr, ignoring case.
func (r *Resolver) Search(substr string) []string {
	substr = strings.ToLower(substr)

	var out []string
	for _, uri := range r.uris() {
		if strings.Contains(strings.ToLower(uri), substr) {
			out = append(out, uri)
		}
	}
	return out
}

func (r *Resolver) uris() []string {
	return slices.Sorted(maps.Keys(r.defs.GetAll()))
}
