package inventory

// BeforeRemove is delivered to a container before an item leaves one of its slots.
type BeforeRemove struct {
	Instigator string
	Item       *Item
	Slot       int
}

// BeforePut is delivered to a container before an item is placed into one of its slots.
type BeforePut struct {
	Instigator string
	Item       *Item
	Slot       int
}

// RemoveVeto returns true to block the removal.
type RemoveVeto func(BeforeRemove) bool

// PutVeto returns true to block the placement.
type PutVeto func(BeforePut) bool

// SlotChanged is emitted after a slot's occupant was replaced.
type SlotChanged struct {
	Container *Container
	Slot      int
	Old       *Item
	New       *Item
}

// StackSizeChanged is emitted after the occupant of a slot changed count.
type StackSizeChanged struct {
	Container *Container
	Slot      int
	Item      *Item
	Old       uint8
	New       uint8
}

type observer[T any] struct {
	id int
	fn T
}

// observerList keeps callbacks in registration order.
type observerList[T any] struct {
	next  int
	items []observer[T]
}

func (l *observerList[T]) add(fn T) func() {
	l.next++
	id := l.next
	l.items = append(l.items, observer[T]{id: id, fn: fn})
	return func() {
		for i, o := range l.items {
			if o.id == id {
				l.items = append(l.items[:i:i], l.items[i+1:]...)
				return
			}
		}
	}
}

func (l *observerList[T]) each(fn func(T) bool) {
	for _, o := range l.items {
		if !fn(o.fn) {
			return
		}
	}
}

type observers struct {
	beforeRemove observerList[RemoveVeto]
	beforePut    observerList[PutVeto]
	slotChanged  observerList[func(SlotChanged)]
	stackChanged observerList[func(StackSizeChanged)]
}

// OnBeforeRemove registers a veto for removals from this container.
// The returned func unregisters it.
func (c *Container) OnBeforeRemove(fn RemoveVeto) func() {
	return c.obs.beforeRemove.add(fn)
}

// OnBeforePut registers a veto for placements into this container.
// The returned func unregisters it.
func (c *Container) OnBeforePut(fn PutVeto) func() {
	return c.obs.beforePut.add(fn)
}

// OnSlotChanged registers a listener for slot replacements.
func (c *Container) OnSlotChanged(fn func(SlotChanged)) func() {
	return c.obs.slotChanged.add(fn)
}

// OnStackSizeChanged registers a listener for count adjustments.
func (c *Container) OnStackSizeChanged(fn func(StackSizeChanged)) func() {
	return c.obs.stackChanged.add(fn)
}

// vetoRemove asks the observer chain whether item may leave slot.
// The chain stops at the first veto.
func (c *Container) vetoRemove(instigator string, item *Item, slot int) bool {
	ev := BeforeRemove{Instigator: instigator, Item: item, Slot: slot}
	vetoed := false
	c.obs.beforeRemove.each(func(fn RemoveVeto) bool {
		vetoed = fn(ev)
		return !vetoed
	})
	return vetoed
}

// vetoPut asks the observer chain whether item may be placed in slot. An
// item is never placed inside its own contents.
func (c *Container) vetoPut(instigator string, item *Item, slot int) bool {
	if item.holds(c) {
		return true
	}
	ev := BeforePut{Instigator: instigator, Item: item, Slot: slot}
	vetoed := false
	c.obs.beforePut.each(func(fn PutVeto) bool {
		vetoed = fn(ev)
		return !vetoed
	})
	return vetoed
}

func (c *Container) emitSlotChanged(slot int, old, item *Item) {
	ev := SlotChanged{Container: c, Slot: slot, Old: old, New: item}
	c.obs.slotChanged.each(func(fn func(SlotChanged)) bool {
		fn(ev)
		return true
	})
}

func (c *Container) emitStackSizeChanged(slot int, item *Item, old, n uint8) {
	ev := StackSizeChanged{Container: c, Slot: slot, Item: item, Old: old, New: n}
	c.obs.stackChanged.each(func(fn func(StackSizeChanged)) bool {
		fn(ev)
		return true
	})
}
