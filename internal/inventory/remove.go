package inventory

// Remove takes amount units out of c[slot]. The removal is offered to the
// container's remove vetoes first.
//
// With destroy set the removed units are discarded and the returned item is
// nil. Otherwise a whole stack is returned as the item itself and a partial
// removal is returned as a new item carrying the removed units.
func Remove(instigator string, c *Container, slot int, amount int, destroy bool) (*Item, bool) {
	item := c.Get(slot)
	if item == nil || amount <= 0 || amount > int(item.Count) {
		return nil, false
	}
	if c.vetoRemove(instigator, item, slot) {
		return nil, false
	}

	if amount == int(item.Count) {
		if destroy {
			item.Destroy()
			c.put(slot, nil)
			return nil, true
		}
		c.put(slot, nil)
		return item, true
	}

	c.adjust(slot, item.Count-uint8(amount))
	if destroy {
		return nil, true
	}
	return item.Copy(uint8(amount)), true
}

// RemoveAcross removes up to amount units from the candidate slots, walking
// them in the given order. Each candidate is veto checked on its own; a vetoed
// or empty candidate is skipped and the walk goes on.
//
// It returns the number of units removed. Unless destroy is set the removed
// units are collected into one item, the first removed portion, carrying the
// total. Later candidates of a different kind are skipped in that case, and
// collection stops once that item is a full stack.
func RemoveAcross(instigator string, c *Container, slots []int, amount int, destroy bool) (int, *Item) {
	removed := 0
	var result *Item

	for _, slot := range slots {
		if removed >= amount {
			break
		}
		item := c.Get(slot)
		if item == nil {
			continue
		}
		if !destroy && result != nil && !IsSameItem(result, item) {
			continue
		}

		n := min(amount-removed, int(item.Count))
		if !destroy {
			room := max(int(item.MaxCount), int(item.Count))
			if result != nil {
				room = spaceLeft(result)
			}
			if room <= 0 {
				break
			}
			n = min(n, room)
		}

		part, ok := Remove(instigator, c, slot, n, destroy)
		if !ok {
			continue
		}
		removed += n

		if destroy {
			continue
		}
		if result == nil {
			result = part
			continue
		}
		result.Count += part.Count
		part.Destroy()
	}

	return removed, result
}
