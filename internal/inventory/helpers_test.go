package inventory

import "testing"

// stack builds a stackable item of kind with count units out of max.
func stack(kind string, count, max uint8) *Item {
	it := NewItem(kind, kind, max)
	it.Count = count
	return it
}

// single builds a non-stackable item.
func single(def string) *Item {
	return NewItem(def, "", 1)
}

// filled builds a container with the given occupants.
func filled(id string, items ...*Item) *Container {
	c := NewContainer(id, len(items))
	for i, it := range items {
		c.slots[i] = it
	}
	return c
}

func vetoAllPuts(c *Container) {
	c.OnBeforePut(func(BeforePut) bool { return true })
}

func vetoAllRemoves(c *Container) {
	c.OnBeforeRemove(func(BeforeRemove) bool { return true })
}

// counts returns the unit count of every slot, 0 for empty.
func counts(c *Container) []int {
	out := make([]int, c.SlotCount())
	for i, it := range c.slots {
		if it != nil {
			out[i] = int(it.Count)
		}
	}
	return out
}

// recorder collects post-mutation notifications.
type recorder struct {
	slots  []SlotChanged
	stacks []StackSizeChanged
}

func record(c *Container) *recorder {
	r := &recorder{}
	c.OnSlotChanged(func(ev SlotChanged) { r.slots = append(r.slots, ev) })
	c.OnStackSizeChanged(func(ev StackSizeChanged) { r.stacks = append(r.stacks, ev) })
	return r
}

// assertWithinMax fails when any slot holds more units than its stack allows.
func assertWithinMax(t *testing.T, c *Container) {
	t.Helper()
	for i, it := range c.slots {
		if it != nil && it.Count > it.MaxCount {
			t.Errorf("%s[%d] holds %d/%d", c.Id(), i, it.Count, it.MaxCount)
		}
	}
}
