package inventory

// IsStackable reports whether the item can ever share a slot with another item.
func IsStackable(i *Item) bool {
	return i != nil && i.StackId != "" && i.MaxCount > 1
}

// IsSameItem reports whether a and b are the same kind of item: both carry the
// same non-empty stack id and identical differentiating attributes. Items with
// their own contents are never the same kind as anything.
func IsSameItem(a, b *Item) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Contents != nil || b.Contents != nil {
		return false
	}
	if a.StackId == "" || b.StackId == "" || a.StackId != b.StackId {
		return false
	}
	return a.Attributes.Equal(b.Attributes)
}

// CanStackInto reports whether every unit of from fits into into.
// An empty destination always accepts. Max count is read from the source.
func CanStackInto(from, into *Item) bool {
	if from == nil {
		return false
	}
	if into == nil {
		return true
	}
	if !IsSameItem(from, into) || from.MaxCount != into.MaxCount {
		return false
	}
	return int(from.Count)+int(into.Count) <= int(from.MaxCount)
}

// spaceLeft is how many more units the stack can take.
func spaceLeft(i *Item) int {
	if int(i.MaxCount) <= int(i.Count) {
		return 0
	}
	return int(i.MaxCount) - int(i.Count)
}
