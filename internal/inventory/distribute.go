package inventory

// MoveToSlots distributes the stack in from[fromSlot] over the candidate slots
// of to. Existing stacks of the same kind are filled first, in candidate order.
// If units remain, the source item is relocated as one stack into the first
// empty candidate whose put is not vetoed.
//
// It returns true when any units moved. Leaving a residual behind in the source
// slot is a valid outcome.
func MoveToSlots(instigator string, from *Container, fromSlot int, to *Container, toSlots []int) bool {
	item := from.Get(fromSlot)
	if item == nil {
		return false
	}
	if from.vetoRemove(instigator, item, fromSlot) {
		return false
	}

	count := int(item.Count)
	moved := fillExistingStacks(from, fromSlot, to, toSlots)

	movedToFree := false
	if moved != count {
		movedToFree = moveToFreeSlot(instigator, from, fromSlot, to, toSlots)
	}

	return moved > 0 || movedToFree
}

// fillExistingStacks returns the number of units moved into existing stacks.
func fillExistingStacks(from *Container, fromSlot int, to *Container, toSlots []int) int {
	item := from.Get(fromSlot)
	remaining := int(item.Count)
	start := remaining

	for _, slot := range toSlots {
		existing := to.Get(slot)
		if existing == nil || existing == item {
			continue
		}
		if !IsSameItem(existing, item) || existing.MaxCount != item.MaxCount {
			continue
		}

		n := min(spaceLeft(existing), remaining)
		if n == 0 {
			continue
		}
		remaining -= n
		if remaining == 0 {
			from.put(fromSlot, nil)
			item.Destroy()
		} else {
			from.adjust(fromSlot, uint8(remaining))
		}
		to.adjust(slot, existing.Count+uint8(n))

		if remaining == 0 {
			break
		}
	}

	return start - remaining
}

// moveToFreeSlot relocates the source item into the first allowed empty candidate.
func moveToFreeSlot(instigator string, from *Container, fromSlot int, to *Container, toSlots []int) bool {
	item := from.Get(fromSlot)
	if item == nil {
		return false
	}

	for _, slot := range toSlots {
		if !to.valid(slot) || to.Get(slot) != nil {
			continue
		}
		if to.vetoPut(instigator, item, slot) {
			continue
		}
		from.put(fromSlot, nil)
		to.put(slot, item)
		return true
	}
	return false
}
