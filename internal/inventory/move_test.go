package inventory

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestMove(t *testing.T) {
	tests := map[string]struct {
		from      []*Item
		to        []*Item
		fromSlot  int
		toSlot    int
		setup     func(from, to *Container)
		exp       bool
		expFrom   []int
		expTo     []int
		expSwap   bool
		expMerged bool
	}{
		"merge same kind": {
			from:      []*Item{stack("stone", 3, 10)},
			to:        []*Item{stack("stone", 7, 10)},
			exp:       true,
			expFrom:   []int{0},
			expTo:     []int{10},
			expMerged: true,
		},
		"overflowing stacks swap": {
			from:    []*Item{stack("stone", 4, 10)},
			to:      []*Item{stack("stone", 7, 10)},
			exp:     true,
			expFrom: []int{7},
			expTo:   []int{4},
			expSwap: true,
		},
		"different kinds swap": {
			from:    []*Item{stack("stone", 2, 10)},
			to:      []*Item{stack("dirt", 5, 10)},
			exp:     true,
			expFrom: []int{5},
			expTo:   []int{2},
			expSwap: true,
		},
		"move into empty slot": {
			from:    []*Item{single("sword")},
			to:      []*Item{nil},
			exp:     true,
			expFrom: []int{0},
			expTo:   []int{1},
			expSwap: true,
		},
		"out of range destination": {
			from:     []*Item{single("sword")},
			to:       []*Item{nil},
			toSlot:   3,
			exp:      false,
			expFrom:  []int{1},
			expTo:    []int{0},
			fromSlot: 0,
		},
		"both empty": {
			from:    []*Item{nil},
			to:      []*Item{nil},
			exp:     false,
			expFrom: []int{0},
			expTo:   []int{0},
		},
		"put veto on destination": {
			from:    []*Item{stack("stone", 2, 10)},
			to:      []*Item{stack("dirt", 5, 10)},
			setup:   func(_, to *Container) { vetoAllPuts(to) },
			exp:     false,
			expFrom: []int{2},
			expTo:   []int{5},
		},
		"put veto on source for the returning item": {
			from:    []*Item{stack("stone", 2, 10)},
			to:      []*Item{stack("dirt", 5, 10)},
			setup:   func(from, _ *Container) { vetoAllPuts(from) },
			exp:     false,
			expFrom: []int{2},
			expTo:   []int{5},
		},
		"remove veto on destination": {
			from:    []*Item{stack("stone", 2, 10)},
			to:      []*Item{stack("dirt", 5, 10)},
			setup:   func(_, to *Container) { vetoAllRemoves(to) },
			exp:     false,
			expFrom: []int{2},
			expTo:   []int{5},
		},
		"veto blocks a merge": {
			from:    []*Item{stack("stone", 3, 10)},
			to:      []*Item{stack("stone", 7, 10)},
			setup:   func(_, to *Container) { vetoAllPuts(to) },
			exp:     false,
			expFrom: []int{3},
			expTo:   []int{7},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			from := filled("from", tt.from...)
			to := filled("to", tt.to...)
			if tt.setup != nil {
				tt.setup(from, to)
			}
			origFrom := from.Get(tt.fromSlot)
			origTo := to.Get(tt.toSlot)

			ok := Move("actor", from, tt.fromSlot, to, tt.toSlot)

			testutil.AssertEqual(t, "result", ok, tt.exp)
			testutil.AssertEqual(t, "from counts", counts(from), tt.expFrom)
			testutil.AssertEqual(t, "to counts", counts(to), tt.expTo)

			if tt.expSwap {
				if from.Get(tt.fromSlot) != origTo || to.Get(tt.toSlot) != origFrom {
					t.Error("expected occupants to swap")
				}
			}
			if tt.expMerged {
				if to.Get(tt.toSlot) != origTo {
					t.Error("expected destination item to keep its identity")
				}
				if !origFrom.Destroyed() {
					t.Error("expected merged source item to be destroyed")
				}
			}
			if !tt.exp {
				if from.Get(tt.fromSlot) != origFrom || to.Get(tt.toSlot) != origTo {
					t.Error("expected slots unchanged on failure")
				}
			}
		})
	}
}

func TestMove_VetoOrder(t *testing.T) {
	from := filled("from", stack("stone", 2, 10))
	to := filled("to", stack("dirt", 5, 10))

	var calls []string
	from.OnBeforeRemove(func(ev BeforeRemove) bool {
		calls = append(calls, "remove-from:"+ev.Item.StackId)
		return false
	})
	to.OnBeforeRemove(func(ev BeforeRemove) bool {
		calls = append(calls, "remove-to:"+ev.Item.StackId)
		return false
	})
	from.OnBeforePut(func(ev BeforePut) bool {
		calls = append(calls, "put-from:"+ev.Item.StackId)
		return false
	})
	to.OnBeforePut(func(ev BeforePut) bool {
		calls = append(calls, "put-to:"+ev.Item.StackId)
		return false
	})

	ok := Move("actor", from, 0, to, 0)

	testutil.AssertEqual(t, "result", ok, true)
	testutil.AssertEqual(t, "calls", calls, []string{
		"remove-from:stone",
		"remove-to:dirt",
		"put-from:dirt",
		"put-to:stone",
	})
}

func TestMove_Notifications(t *testing.T) {
	from := filled("from", stack("stone", 2, 10))
	to := filled("to", stack("dirt", 5, 10))
	rf := record(from)
	rt := record(to)

	Move("actor", from, 0, to, 0)

	testutil.AssertEqual(t, "from slot events", len(rf.slots), 1)
	testutil.AssertEqual(t, "to slot events", len(rt.slots), 1)
	testutil.AssertEqual(t, "from new", rf.slots[0].New.StackId, "dirt")
	testutil.AssertEqual(t, "to new", rt.slots[0].New.StackId, "stone")
}

func TestMove_SameContainer(t *testing.T) {
	c := filled("c", stack("stone", 2, 10), nil, stack("stone", 3, 10))

	testutil.AssertEqual(t, "same slot", Move("actor", c, 0, c, 0), false)
	testutil.AssertEqual(t, "merge", Move("actor", c, 0, c, 2), true)
	testutil.AssertEqual(t, "counts", counts(c), []int{0, 0, 5})
}

func TestMoveAmount(t *testing.T) {
	tests := map[string]struct {
		from    []*Item
		to      []*Item
		amount  int
		setup   func(from, to *Container)
		exp     bool
		expFrom []int
		expTo   []int
	}{
		"split into empty slot": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{nil},
			amount:  2,
			exp:     true,
			expFrom: []int{3},
			expTo:   []int{2},
		},
		"whole stack into empty slot": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{nil},
			amount:  5,
			exp:     true,
			expFrom: []int{0},
			expTo:   []int{5},
		},
		"top up existing stack": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{stack("stone", 6, 10)},
			amount:  4,
			exp:     true,
			expFrom: []int{1},
			expTo:   []int{10},
		},
		"zero amount": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{nil},
			amount:  0,
			exp:     false,
			expFrom: []int{5},
			expTo:   []int{0},
		},
		"negative amount": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{nil},
			amount:  -1,
			exp:     false,
			expFrom: []int{5},
			expTo:   []int{0},
		},
		"more than available": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{nil},
			amount:  6,
			exp:     false,
			expFrom: []int{5},
			expTo:   []int{0},
		},
		"destination of another kind": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{stack("dirt", 1, 10)},
			amount:  1,
			exp:     false,
			expFrom: []int{5},
			expTo:   []int{1},
		},
		"destination would overflow": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{stack("stone", 8, 10)},
			amount:  3,
			exp:     false,
			expFrom: []int{5},
			expTo:   []int{8},
		},
		"empty source": {
			from:    []*Item{nil},
			to:      []*Item{nil},
			amount:  1,
			exp:     false,
			expFrom: []int{0},
			expTo:   []int{0},
		},
		"remove veto": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{nil},
			amount:  1,
			setup:   func(from, _ *Container) { vetoAllRemoves(from) },
			exp:     false,
			expFrom: []int{5},
			expTo:   []int{0},
		},
		"put veto into empty slot": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{nil},
			amount:  1,
			setup:   func(_, to *Container) { vetoAllPuts(to) },
			exp:     false,
			expFrom: []int{5},
			expTo:   []int{0},
		},
		"put veto ignored when topping up": {
			from:    []*Item{stack("stone", 5, 10)},
			to:      []*Item{stack("stone", 1, 10)},
			amount:  2,
			setup:   func(_, to *Container) { vetoAllPuts(to) },
			exp:     true,
			expFrom: []int{3},
			expTo:   []int{3},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			from := filled("from", tt.from...)
			to := filled("to", tt.to...)
			if tt.setup != nil {
				tt.setup(from, to)
			}
			before := from.Total() + to.Total()

			ok := MoveAmount("actor", from, 0, to, 0, tt.amount)

			testutil.AssertEqual(t, "result", ok, tt.exp)
			testutil.AssertEqual(t, "from counts", counts(from), tt.expFrom)
			testutil.AssertEqual(t, "to counts", counts(to), tt.expTo)
			testutil.AssertEqual(t, "units conserved", from.Total()+to.Total(), before)
		})
	}
}

func TestMoveAmount_SplitCreatesNewIdentity(t *testing.T) {
	orig := stack("pick", 5, 10)
	orig.Attributes = Attributes{"durability": "40"}
	from := filled("from", orig)
	to := NewContainer("to", 1)

	ok := MoveAmount("actor", from, 0, to, 0, 2)
	if !ok {
		t.Fatal("expected split to succeed")
	}

	split := to.Get(0)
	if split == orig {
		t.Fatal("expected a new item in the destination")
	}
	if from.Get(0) != orig {
		t.Error("expected source to keep its identity")
	}
	testutil.AssertEqual(t, "split attributes", split.Attributes["durability"], "40")
	testutil.AssertEqual(t, "same kind", IsSameItem(orig, split), true)
}

func TestMoveAmount_SplitThenMergeRestoresCount(t *testing.T) {
	orig := stack("stone", 7, 10)
	c := filled("c", orig, nil)

	if !MoveAmount("actor", c, 0, c, 1, 3) {
		t.Fatal("expected split to succeed")
	}
	if !Move("actor", c, 1, c, 0) {
		t.Fatal("expected merge back to succeed")
	}

	if c.Get(0) != orig {
		t.Error("expected the original item to remain in slot 0")
	}
	testutil.AssertEqual(t, "counts", counts(c), []int{7, 0})
}

func TestMoveAmount_WholeStackKeepsContents(t *testing.T) {
	bag := single("bag")
	bag.Contents = NewContainer("bag-contents", 4)
	contents := bag.Contents
	from := filled("from", bag)
	to := NewContainer("to", 1)

	if !MoveAmount("actor", from, 0, to, 0, 1) {
		t.Fatal("expected move to succeed")
	}

	if to.Get(0).Contents != contents {
		t.Error("expected nested contents to follow the moved item")
	}
	if !bag.Destroyed() {
		t.Error("expected the emptied source record to be destroyed")
	}
}

func TestMove_NeverIntoItsOwnContents(t *testing.T) {
	outer := single("bag")
	outer.Contents = NewContainer("outer", 2)
	inner := single("pouch")
	inner.Contents = NewContainer("inner", 1)
	outer.Contents.slots[0] = inner
	inv := filled("inv", outer, nil)

	testutil.AssertEqual(t, "into itself", Move("actor", inv, 0, outer.Contents, 1), false)
	testutil.AssertEqual(t, "into nested", Move("actor", inv, 0, inner.Contents, 0), false)
	testutil.AssertEqual(t, "split into nested", MoveAmount("actor", inv, 0, inner.Contents, 0, 1), false)
	testutil.AssertEqual(t, "spread into nested", MoveToSlots("actor", inv, 0, inner.Contents, []int{0}), false)
	testutil.AssertEqual(t, "still held", inv.Get(0), outer)

	// Taking the pouch out of the bag is fine.
	testutil.AssertEqual(t, "out of the bag", Move("actor", outer.Contents, 0, inv, 1), true)
}
