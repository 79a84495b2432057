package inventory

import "fmt"

// Container is a fixed number of ordered slots, each empty or holding one item.
// A container is not safe for concurrent use; callers serialise access.
type Container struct {
	id    string
	slots []*Item
	obs   observers
}

// NewContainer creates an empty container with size slots.
func NewContainer(id string, size int) *Container {
	if size < 0 {
		size = 0
	}
	return &Container{
		id:    id,
		slots: make([]*Item, size),
	}
}

func (c *Container) Id() string {
	return c.id
}

// SlotCount returns the fixed number of slots.
func (c *Container) SlotCount() int {
	return len(c.slots)
}

// Get returns the item in slot, or nil when the slot is empty or out of range.
func (c *Container) Get(slot int) *Item {
	if !c.valid(slot) {
		return nil
	}
	return c.slots[slot]
}

// Set replaces the occupant of slot without consulting vetoes.
// It is meant for loaders and replicas; transfers go through the engine functions.
func (c *Container) Set(slot int, item *Item) error {
	if !c.valid(slot) {
		return fmt.Errorf("slot %d out of range [0,%d)", slot, len(c.slots))
	}
	c.put(slot, item)
	return nil
}

// SlotOf returns the slot holding item, or -1.
func (c *Container) SlotOf(item *Item) int {
	for i, it := range c.slots {
		if it == item {
			return i
		}
	}
	return -1
}

// Items returns a copy of the slot array.
func (c *Container) Items() []*Item {
	out := make([]*Item, len(c.slots))
	copy(out, c.slots)
	return out
}

// Total returns the number of units held across all slots.
func (c *Container) Total() int {
	n := 0
	for _, it := range c.slots {
		if it != nil {
			n += int(it.Count)
		}
	}
	return n
}

// Snapshot captures slot occupants and their counts.
type Snapshot struct {
	items  []*Item
	counts []uint8
}

// Snapshot records the current state so it can be restored later.
func (c *Container) Snapshot() Snapshot {
	s := Snapshot{
		items:  c.Items(),
		counts: make([]uint8, len(c.slots)),
	}
	for i, it := range c.slots {
		if it != nil {
			s.counts[i] = it.Count
		}
	}
	return s
}

// Restore puts back the occupants and counts captured by Snapshot,
// emitting notifications for every slot that differs.
func (c *Container) Restore(s Snapshot) {
	for i := range c.slots {
		if i >= len(s.items) {
			break
		}
		it := s.items[i]
		if c.slots[i] != it {
			if it != nil {
				it.Count = s.counts[i]
				it.destroyed = false
			}
			c.put(i, it)
			continue
		}
		if it != nil && it.Count != s.counts[i] {
			c.adjust(i, s.counts[i])
		}
	}
}

func (c *Container) valid(slot int) bool {
	return slot >= 0 && slot < len(c.slots)
}

// put replaces the occupant of slot and notifies listeners.
func (c *Container) put(slot int, item *Item) {
	if item != nil && item.Count == 0 {
		panic(fmt.Sprintf("inventory: placing item %s with count 0 into %s[%d]", item.Id(), c.id, slot))
	}
	old := c.slots[slot]
	c.slots[slot] = item
	c.emitSlotChanged(slot, old, item)
}

// adjust changes the count of the occupant of slot and notifies listeners.
func (c *Container) adjust(slot int, count uint8) {
	item := c.slots[slot]
	if item == nil {
		panic(fmt.Sprintf("inventory: adjusting empty slot %s[%d]", c.id, slot))
	}
	if count == 0 {
		panic(fmt.Sprintf("inventory: adjusting %s[%d] to count 0", c.id, slot))
	}
	old := item.Count
	item.Count = count
	c.emitStackSizeChanged(slot, item, old, count)
}
