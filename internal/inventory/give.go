package inventory

// Give adds a loose item to c. Units first top up existing stacks of the same
// kind in slot order, then whatever is left is placed, as the item itself, in
// the first free slot whose put is not vetoed. A remainder larger than a full
// stack is split into full stacks across further free slots.
//
// It returns the number of units placed. When the whole item was merged into
// existing stacks it is destroyed. When units are left over they stay on the
// item for the caller to dispose of.
func Give(instigator string, c *Container, item *Item) int {
	if item == nil || item.Destroyed() || item.Count == 0 {
		return 0
	}

	placed := 0
	if IsStackable(item) {
		for slot, existing := range c.slots {
			if existing == nil || existing == item {
				continue
			}
			if !IsSameItem(item, existing) || existing.MaxCount != item.MaxCount {
				continue
			}
			n := min(spaceLeft(existing), int(item.Count))
			if n == 0 {
				continue
			}
			c.adjust(slot, existing.Count+uint8(n))
			item.Count -= uint8(n)
			placed += n
			if item.Count == 0 {
				item.Destroy()
				return placed
			}
		}
	}

	for slot, existing := range c.slots {
		if existing != nil {
			continue
		}
		if c.vetoPut(instigator, item, slot) {
			continue
		}
		if item.MaxCount > 0 && item.Count > item.MaxCount {
			c.put(slot, item.Copy(item.MaxCount))
			item.Count -= item.MaxCount
			placed += int(item.MaxCount)
			continue
		}
		placed += int(item.Count)
		c.put(slot, item)
		return placed
	}

	return placed
}
