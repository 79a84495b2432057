package inventory

// Move transfers the item in from[fromSlot] to to[toSlot]. When the two slots
// hold the same kind of item and the combined count fits, the source stack is
// merged into the destination. Otherwise the two slots swap occupants.
// Nothing changes when it returns false.
func Move(instigator string, from *Container, fromSlot int, to *Container, toSlot int) bool {
	if !from.valid(fromSlot) || !to.valid(toSlot) {
		return false
	}
	if from == to && fromSlot == toSlot {
		return false
	}

	itemFrom := from.Get(fromSlot)
	itemTo := to.Get(toSlot)
	if itemFrom == nil && itemTo == nil {
		return false
	}

	if itemFrom != nil && itemTo != nil && CanStackInto(itemFrom, itemTo) {
		return mergeStacks(instigator, from, fromSlot, to, toSlot)
	}

	if !validateMove(instigator, from, fromSlot, to, toSlot) {
		return false
	}

	from.put(fromSlot, itemTo)
	to.put(toSlot, itemFrom)
	return true
}

// mergeStacks folds the whole source stack into the destination stack.
func mergeStacks(instigator string, from *Container, fromSlot int, to *Container, toSlot int) bool {
	itemFrom := from.Get(fromSlot)
	itemTo := to.Get(toSlot)

	if from.vetoRemove(instigator, itemFrom, fromSlot) {
		return false
	}
	if to.vetoPut(instigator, itemFrom, toSlot) {
		return false
	}

	total := itemFrom.Count + itemTo.Count
	from.put(fromSlot, nil)
	to.adjust(toSlot, total)
	itemFrom.Destroy()
	return true
}

// validateMove runs every remove check before any put check so that a veto on
// the destination can never leave the source vacated.
func validateMove(instigator string, from *Container, fromSlot int, to *Container, toSlot int) bool {
	itemFrom := from.Get(fromSlot)
	itemTo := to.Get(toSlot)

	if itemFrom != nil && from.vetoRemove(instigator, itemFrom, fromSlot) {
		return false
	}
	if itemTo != nil && to.vetoRemove(instigator, itemTo, toSlot) {
		return false
	}
	if itemTo != nil && from.vetoPut(instigator, itemTo, fromSlot) {
		return false
	}
	if itemFrom != nil && to.vetoPut(instigator, itemFrom, toSlot) {
		return false
	}
	return true
}

// MoveAmount moves amount units from from[fromSlot] to to[toSlot]. An empty
// destination receives a new item record carrying the units, so a split always
// leaves two independent items. An occupied destination must hold the same
// kind of item with room for amount more units.
func MoveAmount(instigator string, from *Container, fromSlot int, to *Container, toSlot int, amount int) bool {
	if !validateMoveAmount(instigator, from, fromSlot, to, toSlot, amount) {
		return false
	}

	itemFrom := from.Get(fromSlot)
	itemTo := to.Get(toSlot)
	whole := amount == int(itemFrom.Count)

	if itemTo == nil {
		split := itemFrom.Copy(uint8(amount))
		if whole {
			split.Contents = itemFrom.Contents
			itemFrom.Contents = nil
		}
		takeFrom(from, fromSlot, amount)
		to.put(toSlot, split)
		return true
	}

	takeFrom(from, fromSlot, amount)
	to.adjust(toSlot, itemTo.Count+uint8(amount))
	return true
}

func validateMoveAmount(instigator string, from *Container, fromSlot int, to *Container, toSlot int, amount int) bool {
	if !from.valid(fromSlot) || !to.valid(toSlot) {
		return false
	}
	if from == to && fromSlot == toSlot {
		return false
	}

	itemFrom := from.Get(fromSlot)
	itemTo := to.Get(toSlot)
	if itemFrom == nil {
		return false
	}
	if amount <= 0 || amount > int(itemFrom.Count) {
		return false
	}

	toCount := 0
	if itemTo != nil {
		if !IsSameItem(itemFrom, itemTo) || itemFrom.MaxCount != itemTo.MaxCount {
			return false
		}
		toCount = int(itemTo.Count)
	}
	if toCount+amount > int(itemFrom.MaxCount) {
		return false
	}

	if from.vetoRemove(instigator, itemFrom, fromSlot) {
		return false
	}
	// Topping up an existing stack does not place a new item.
	if itemTo == nil && to.vetoPut(instigator, itemFrom, toSlot) {
		return false
	}
	return true
}

// takeFrom removes amount units from the stack in slot, clearing and
// destroying it when nothing is left.
func takeFrom(c *Container, slot int, amount int) {
	item := c.Get(slot)
	if amount >= int(item.Count) {
		c.put(slot, nil)
		item.Destroy()
		return
	}
	c.adjust(slot, item.Count-uint8(amount))
}
