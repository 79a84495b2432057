package catalog

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// Kit is a named starting inventory offered to new sessions.
type Kit struct {
	Name  string     `json:"name"`
	Items []KitEntry `json:"items"`
}

// KitEntry asks for Quantity units of the item at Uri. Items are stocked into
// the created item's own container.
type KitEntry struct {
	Uri      string     `json:"uri"`
	Quantity *int       `json:"quantity,omitempty"`
	Items    []KitEntry `json:"items,omitempty"`
}

// Amount returns the requested quantity, defaulting to 1.
func (e KitEntry) Amount() int {
	if e.Quantity == nil {
		return 1
	}
	return *e.Quantity
}

// Selector satisfies storage.validatingSelectable
func (k *Kit) Selector() string {
	return k.Name
}

// Validate satisfies storage.ValidatingSpec. Entries are checked by Stock.
func (k *Kit) Validate() error {
	el := errors.NewErrorList()
	if k.Name == "" {
		el.Add(fmt.Errorf("kit name is required"))
	}
	return el.Err()
}
