package inventory

import (
	"maps"

	"github.com/google/uuid"
)

// Attributes are the differentiating properties of an item (durability,
// enchantment, ...). Two items only merge when their attributes match exactly.
type Attributes map[string]string

// Equal reports whether both attribute sets hold the same kinds with the same values.
func (a Attributes) Equal(b Attributes) bool {
	return maps.Equal(a, b)
}

// Item is one placeable unit or stack held in a container slot.
type Item struct {
	id string

	// DefinitionId is the catalog entry the item was created from, if any.
	DefinitionId string

	// StackId groups items that may merge. Empty means the item never stacks.
	StackId  string
	Count    uint8
	MaxCount uint8

	Attributes Attributes

	// Contents is the item's own inventory (a bag, a chest). Nil for plain items.
	Contents *Container

	destroyed bool
}

// NewItem creates a single item with a fresh identity.
func NewItem(defId, stackId string, maxCount uint8) *Item {
	if maxCount == 0 {
		maxCount = 1
	}
	return &Item{
		id:           uuid.New().String(),
		DefinitionId: defId,
		StackId:      stackId,
		Count:        1,
		MaxCount:     maxCount,
	}
}

// Id returns the item's identity. Split portions get their own id.
func (i *Item) Id() string {
	return i.id
}

// Copy returns a new item with its own identity carrying count units.
// Attributes are cloned so the two records never share state.
func (i *Item) Copy(count uint8) *Item {
	c := &Item{
		id:           uuid.New().String(),
		DefinitionId: i.DefinitionId,
		StackId:      i.StackId,
		Count:        count,
		MaxCount:     i.MaxCount,
		Attributes:   maps.Clone(i.Attributes),
	}
	if i.Contents != nil {
		c.Contents = NewContainer(uuid.New().String(), i.Contents.SlotCount())
	}
	return c
}

// Destroy marks the item as discarded. A destroyed item must not be placed again.
func (i *Item) Destroy() {
	i.destroyed = true
}

// Destroyed reports whether the item was discarded.
func (i *Item) Destroyed() bool {
	return i.destroyed
}

// Name returns a label for the item, used in listings and logs.
func (i *Item) Name() string {
	if i.DefinitionId != "" {
		return i.DefinitionId
	}
	if i.StackId != "" {
		return i.StackId
	}
	return i.id
}

// holds reports whether c is the item's contents or nested somewhere inside them.
func (i *Item) holds(c *Container) bool {
	if i == nil || i.Contents == nil {
		return false
	}
	if i.Contents == c {
		return true
	}
	for _, inner := range i.Contents.slots {
		if inner.holds(c) {
			return true
		}
	}
	return false
}
