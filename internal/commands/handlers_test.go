package commands

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/journal"
	"github.com/pixil98/go-inventory/internal/protocol"
	"github.com/pixil98/go-inventory/internal/world"
	"github.com/pixil98/go-testutil"
)

var giveCmd = &Command{
	Handler: "give",
	Config: map[string]any{
		"item":   "{{ .Inputs.item }}",
		"amount": "{{ .Inputs.amount }}",
	},
	Inputs: []InputSpec{
		{Name: "item", Type: InputTypeString, Required: true},
		{Name: "amount", Type: InputTypeNumber},
	},
}

var removeCmd = &Command{
	Handler: "remove",
	Config:  giveCmd.Config,
	Inputs:  giveCmd.Inputs,
}

func (f *fixture) give(t *testing.T, args ...string) {
	t.Helper()
	if err := f.run(t, giveCmd, NewGiveHandlerFactory(f.items, f.world, f.pub), args...); err != nil {
		t.Fatalf("giving %v: %v", args, err)
	}
}

func TestGiveHandler(t *testing.T) {
	tests := map[string]struct {
		before    [][]string
		args      []string
		expCounts []int
		expMsg    string
		expErr    string
	}{
		"single item": {
			args:      []string{"iron-ingot"},
			expCounts: []int{1, 0, 0, 0, 0, 0, 0, 0, 0},
			expMsg:    "You received an item of iron ingot.\n",
		},
		"spills into a second stack": {
			args:      []string{"iron-ingot", "70"},
			expCounts: []int{64, 6, 0, 0, 0, 0, 0, 0, 0},
			expMsg:    "You received 70 items of iron ingot.\n",
		},
		"stops when full": {
			args:      []string{"iron-sword", "12"},
			expCounts: []int{1, 1, 1, 1, 1, 1, 1, 1, 1},
			expMsg:    "You received 9 items of iron sword.\n",
		},
		"nothing fits": {
			before:    [][]string{{"iron-sword", "9"}},
			args:      []string{"torch"},
			expCounts: []int{1, 1, 1, 1, 1, 1, 1, 1, 1},
			expErr:    "Your inventory is full.",
		},
		"zero amount": {
			args:      []string{"iron-ingot", "0"},
			expCounts: []int{0, 0, 0, 0, 0, 0, 0, 0, 0},
			expErr:    "Requested zero (0) items!",
		},
		"unknown item": {
			args:      []string{"mithril"},
			expCounts: []int{0, 0, 0, 0, 0, 0, 0, 0, 0},
			expErr:    `Could not find an item matching "mithril"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			for _, args := range tt.before {
				f.give(t, args...)
			}

			err := f.run(t, giveCmd, NewGiveHandlerFactory(f.items, f.world, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "message", f.pub.last("alice"), tt.expMsg)
			}
			testutil.AssertEqual(t, "counts", f.counts(), tt.expCounts)
		})
	}
}

func TestGiveHandler_CustomMessage(t *testing.T) {
	f := newFixture(t)
	cmd := &Command{
		Handler: "give",
		Config: map[string]any{
			"item":    "torch",
			"message": "{{ .Name | upper }} x{{ .Amount }}",
		},
	}

	if err := f.run(t, cmd, NewGiveHandlerFactory(f.items, f.world, f.pub)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "message", f.pub.last("alice"), "TORCH x1\n")
}

func TestRemoveHandler(t *testing.T) {
	tests := map[string]struct {
		args      []string
		expCounts []int
		expMsg    string
		expErr    string
	}{
		"from the last stack first": {
			args:      []string{"iron-ingot", "4"},
			expCounts: []int{64, 2, 1, 0, 0, 0, 0, 0, 0},
			expMsg:    "Removed 4 items of iron ingot.\n",
		},
		"across stacks": {
			args:      []string{"iron-ingot", "66"},
			expCounts: []int{4, 0, 1, 0, 0, 0, 0, 0, 0},
			expMsg:    "Removed 66 items of iron ingot.\n",
		},
		"defaults to one": {
			args:      []string{"torch"},
			expCounts: []int{64, 6, 0, 0, 0, 0, 0, 0, 0},
			expMsg:    "Removed an item of torch.\n",
		},
		"more than held": {
			args:      []string{"torch", "5"},
			expCounts: []int{64, 6, 0, 0, 0, 0, 0, 0, 0},
			expMsg:    "Removed an item of torch.\n",
		},
		"none held": {
			args:      []string{"gold-ingot"},
			expCounts: []int{64, 6, 1, 0, 0, 0, 0, 0, 0},
			expErr:    "You don't have any gold ingot.",
		},
		"zero amount": {
			args:      []string{"iron-ingot", "0"},
			expCounts: []int{64, 6, 1, 0, 0, 0, 0, 0, 0},
			expErr:    "Requested zero (0) items!",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.give(t, "iron-ingot", "70")
			f.give(t, "torch")

			err := f.run(t, removeCmd, NewRemoveHandlerFactory(f.items, f.world, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "message", f.pub.last("alice"), tt.expMsg)
			}
			testutil.AssertEqual(t, "counts", f.counts(), tt.expCounts)
		})
	}
}

func TestBulkGiveHandler(t *testing.T) {
	cmd := &Command{
		Handler: "bulkgive",
		Config: map[string]any{
			"search": "{{ .Inputs.search }}",
			"amount": "{{ .Inputs.amount }}",
		},
		Inputs: []InputSpec{
			{Name: "search", Type: InputTypeString, Required: true},
			{Name: "amount", Type: InputTypeNumber},
		},
	}

	t.Run("matches", func(t *testing.T) {
		f := newFixture(t)
		err := f.run(t, cmd, NewBulkGiveHandlerFactory(f.items, f.world, f.pub), "INGOT", "2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "message", f.pub.last("alice"), "  gold-ingot: 2\n  iron-ingot: 2\n")
		testutil.AssertEqual(t, "counts", f.counts(), []int{2, 2, 0, 0, 0, 0, 0, 0, 0})
	})

	t.Run("no matches", func(t *testing.T) {
		f := newFixture(t)
		err := f.run(t, cmd, NewBulkGiveHandlerFactory(f.items, f.world, f.pub), "mithril")
		testutil.AssertErrorContains(t, err, `Could not find any items matching "mithril"`)
	})
}

func TestItemsHandler(t *testing.T) {
	cmd := &Command{
		Handler: "items",
		Config:  map[string]any{"prefix": "{{ .Inputs.prefix }}"},
		Inputs:  []InputSpec{{Name: "prefix", Type: InputTypeString, Rest: true}},
	}

	tests := map[string]struct {
		args   []string
		expMsg string
		expErr string
	}{
		"everything": {
			expMsg: "bread, gold-ingot, iron-ingot, iron-sword, leather-bag, torch\n",
		},
		"by prefix": {
			args:   []string{"iron"},
			expMsg: "iron-ingot, iron-sword\n",
		},
		"several prefixes": {
			args:   []string{"gold", "torch"},
			expMsg: "gold-ingot, torch\n",
		},
		"no match": {
			args:   []string{"mithril"},
			expErr: "No items match.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			err := f.run(t, cmd, NewItemsHandlerFactory(f.items, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "message", f.pub.last("alice"), tt.expMsg)
		})
	}
}

func TestInventoryHandler(t *testing.T) {
	cmd := &Command{Handler: "inventory"}

	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)
		if err := f.run(t, cmd, NewInventoryHandlerFactory(f.items, f.world, f.pub)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "message", f.pub.last("alice"), "You are carrying (0/9 slots used):\n  Nothing.\n")
	})

	t.Run("items", func(t *testing.T) {
		f := newFixture(t)
		f.give(t, "iron-ingot", "70")
		f.give(t, "leather-bag")

		if err := f.run(t, cmd, NewInventoryHandlerFactory(f.items, f.world, f.pub)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		exp := "You are carrying (3/9 slots used):\n" +
			"  1. Iron Ingot x64 (in hand)\n" +
			"  2. Iron Ingot x6\n" +
			"  3. Leather Bag (holds 0 items)\n"
		testutil.AssertEqual(t, "message", f.pub.last("alice"), exp)
	})
}

func TestMoveHandler(t *testing.T) {
	cmd := &Command{
		Handler: "move",
		Config:  map[string]any{"from": "{{ .Inputs.from }}", "to": "{{ .Inputs.to }}"},
		Inputs: []InputSpec{
			{Name: "from", Type: InputTypeString, Required: true},
			{Name: "to", Type: InputTypeString, Required: true},
		},
	}

	tests := map[string]struct {
		args      []string
		expCounts []int
		expErr    string
	}{
		"into an empty slot": {
			args:      []string{"1", "4"},
			expCounts: []int{0, 1, 0, 10, 0, 0, 0, 0, 0},
		},
		"swap": {
			args:      []string{"1", "2"},
			expCounts: []int{1, 10, 0, 0, 0, 0, 0, 0, 0},
		},
		"from an empty slot": {
			args:      []string{"5", "6"},
			expCounts: []int{10, 1, 0, 0, 0, 0, 0, 0, 0},
			expErr:    "That won't go there.",
		},
		"slot zero": {
			args:      []string{"0", "2"},
			expCounts: []int{10, 1, 0, 0, 0, 0, 0, 0, 0},
			expErr:    "Slots are numbered from 1.",
		},
		"past the end": {
			args:      []string{"1", "10"},
			expCounts: []int{10, 1, 0, 0, 0, 0, 0, 0, 0},
			expErr:    "That won't go there.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.give(t, "iron-ingot", "10")
			f.give(t, "iron-sword")

			err := f.run(t, cmd, NewMoveHandlerFactory(f.items, f.world, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "message", f.pub.last("alice"), "Moved.\n")
			}
			testutil.AssertEqual(t, "counts", f.counts(), tt.expCounts)
		})
	}
}

func TestSplitHandler(t *testing.T) {
	cmd := &Command{
		Handler: "split",
		Config: map[string]any{
			"from":   "{{ .Inputs.from }}",
			"to":     "{{ .Inputs.to }}",
			"amount": "{{ .Inputs.amount }}",
		},
		Inputs: []InputSpec{
			{Name: "from", Type: InputTypeString, Required: true},
			{Name: "to", Type: InputTypeString, Required: true},
			{Name: "amount", Type: InputTypeNumber, Required: true},
		},
	}

	tests := map[string]struct {
		args      []string
		expCounts []int
		expErr    string
	}{
		"part of a stack": {
			args:      []string{"1", "3", "4"},
			expCounts: []int{6, 0, 4, 0, 0, 0, 0, 0, 0},
		},
		"more than held": {
			args:      []string{"1", "3", "11"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expErr:    "That won't go there.",
		},
		"zero": {
			args:      []string{"1", "3", "0"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expErr:    "Requested zero (0) items!",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.give(t, "iron-ingot", "10")

			err := f.run(t, cmd, NewSplitHandlerFactory(f.items, f.world, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "message", f.pub.last("alice"), "Split.\n")
			}
			testutil.AssertEqual(t, "counts", f.counts(), tt.expCounts)
		})
	}
}

func TestStashHandler(t *testing.T) {
	cmd := &Command{
		Handler: "stash",
		Config:  map[string]any{"from": "{{ .Inputs.from }}", "to": "{{ .Inputs.to }}"},
		Inputs: []InputSpec{
			{Name: "from", Type: InputTypeString, Required: true},
			{Name: "to", Type: InputTypeString, Required: true, Rest: true},
		},
	}

	tests := map[string]struct {
		args      []string
		expCounts []int
		expErr    string
	}{
		"first free candidate": {
			args:      []string{"1", "3,5"},
			expCounts: []int{0, 0, 10, 0, 0, 0, 0, 0, 0},
		},
		"space separated": {
			args:      []string{"1", "5", "3"},
			expCounts: []int{0, 0, 0, 0, 10, 0, 0, 0, 0},
		},
		"bad slot": {
			args:      []string{"1", "x"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expErr:    `"x" is not a valid number.`,
		},
		"no slots": {
			args:      []string{"1", ","},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expErr:    "Name at least one slot.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.give(t, "iron-ingot", "10")

			err := f.run(t, cmd, NewStashHandlerFactory(f.items, f.world, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "message", f.pub.last("alice"), "Stashed.\n")
			}
			testutil.AssertEqual(t, "counts", f.counts(), tt.expCounts)
		})
	}
}

type fakeHistorian struct {
	entries []journal.Entry
	err     error
	limit   int
}

func (h *fakeHistorian) Recent(ctx context.Context, containerId string, limit int) ([]journal.Entry, error) {
	h.limit = limit
	return h.entries, h.err
}

func TestHistoryHandler(t *testing.T) {
	cmd := &Command{
		Handler: "history",
		Config:  map[string]any{"limit": "{{ .Inputs.limit }}"},
		Inputs:  []InputSpec{{Name: "limit", Type: InputTypeNumber}},
	}
	at := time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)

	t.Run("entries", func(t *testing.T) {
		f := newFixture(t)
		h := &fakeHistorian{entries: []journal.Entry{
			{At: at, Slot: 1, Kind: journal.KindResize, ItemName: "iron-ingot", OldCount: 6, NewCount: 2},
			{At: at, Slot: 0, Kind: journal.KindPut, ItemName: "iron-sword", NewCount: 1},
			{At: at, Slot: 3, Kind: journal.KindClear, ItemName: "torch", OldCount: 1},
		}}

		if err := f.run(t, cmd, NewHistoryHandlerFactory(h, f.pub), "3"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		exp := "  12:30:00  slot 2: iron-ingot 6 -> 2\n" +
			"  12:30:00  slot 1: iron-sword x1 placed\n" +
			"  12:30:00  slot 4: torch x1 taken\n"
		testutil.AssertEqual(t, "message", f.pub.last("alice"), exp)
		testutil.AssertEqual(t, "limit", h.limit, 3)
	})

	t.Run("default limit", func(t *testing.T) {
		f := newFixture(t)
		h := &fakeHistorian{}

		if err := f.run(t, cmd, NewHistoryHandlerFactory(h, f.pub)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "message", f.pub.last("alice"), "Nothing has changed yet.\n")
		testutil.AssertEqual(t, "limit", h.limit, defaultHistoryLimit)
	})

	t.Run("journal failure", func(t *testing.T) {
		f := newFixture(t)
		h := &fakeHistorian{err: fmt.Errorf("disk on fire")}

		err := f.run(t, cmd, NewHistoryHandlerFactory(h, f.pub))
		testutil.AssertErrorContains(t, err, "disk on fire")
	})
}

func TestHelpHandler(t *testing.T) {
	f := newFixture(t)
	store := cmdStore{
		"help": {
			Handler: "help",
			Help:    "Lists commands.",
			Config:  map[string]any{"command": "{{ .Inputs.command }}"},
			Inputs:  []InputSpec{{Name: "command", Type: InputTypeString}},
		},
		"quit": {Handler: "quit", Help: "Leaves."},
	}

	h := NewHandler(store)
	if err := h.RegisterFactory("help", NewHelpHandlerFactory(h, f.pub)); err != nil {
		t.Fatalf("registering: %v", err)
	}
	if err := h.RegisterFactory("quit", NewQuitHandlerFactory(f.world)); err != nil {
		t.Fatalf("registering: %v", err)
	}
	if err := h.CompileAll(); err != nil {
		t.Fatalf("compiling: %v", err)
	}

	ctx := context.Background()

	if err := h.Exec(ctx, f.sess, "HELP"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exp := "Commands:\n" +
		"  help       Lists commands.\n" +
		"  quit       Leaves.\n"
	testutil.AssertEqual(t, "listing", f.pub.last("alice"), exp)

	if err := h.Exec(ctx, f.sess, "help", "quit"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "topic", f.pub.last("alice"), "quit: Leaves.\n")

	err := h.Exec(ctx, f.sess, "help", "dance")
	testutil.AssertErrorContains(t, err, "Unknown command: dance")
}

func TestQuitHandler(t *testing.T) {
	f := newFixture(t)

	if f.world.ActorQuit("alice") {
		t.Fatal("actor should not be quitting yet")
	}
	if err := f.run(t, &Command{Handler: "quit"}, NewQuitHandlerFactory(f.world)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.world.ActorQuit("alice") {
		t.Error("expected the actor to be quitting")
	}
}

func TestInventoryHandler_Where(t *testing.T) {
	cmd := &Command{
		Handler: "inventory",
		Config:  map[string]any{"where": "{{ .Inputs.where }}"},
		Inputs:  []InputSpec{{Name: "where", Type: InputTypeString}},
	}

	t.Run("ground", func(t *testing.T) {
		f := newFixture(t)
		ground, err := f.world.Container(world.GroundId)
		if err != nil {
			t.Fatalf("finding ground: %v", err)
		}
		sword, _ := f.items.Resolve("iron-sword")
		if err := ground.Set(1, sword); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := f.run(t, cmd, NewInventoryHandlerFactory(f.items, f.world, f.pub), "ground"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "message", f.pub.last("alice"), "The ground holds (1/4 slots used):\n  2. Iron Sword\n")
	})

	t.Run("bag", func(t *testing.T) {
		f := newFixture(t)
		f.give(t, "leather-bag")
		torch, _ := f.items.Resolve("torch")
		if err := f.actor.Inventory.Get(0).Contents.Set(0, torch); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := f.run(t, cmd, NewInventoryHandlerFactory(f.items, f.world, f.pub), "1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "message", f.pub.last("alice"), "Your Leather Bag holds (1/4 slots used):\n  1. Torch\n")
	})

	t.Run("not a container", func(t *testing.T) {
		f := newFixture(t)
		f.give(t, "torch")

		err := f.run(t, cmd, NewInventoryHandlerFactory(f.items, f.world, f.pub), "1")
		testutil.AssertErrorContains(t, err, "Slot 1 does not hold a container.")
	})
}

func TestTransferHandlers_BetweenContainers(t *testing.T) {
	moveCmd := &Command{
		Handler: "move",
		Config:  map[string]any{"from": "{{ .Inputs.from }}", "to": "{{ .Inputs.to }}"},
		Inputs: []InputSpec{
			{Name: "from", Type: InputTypeString, Required: true},
			{Name: "to", Type: InputTypeString, Required: true},
		},
	}
	stashCmd := &Command{
		Handler: "stash",
		Config:  moveCmd.Config,
		Inputs: []InputSpec{
			{Name: "from", Type: InputTypeString, Required: true},
			{Name: "to", Type: InputTypeString, Required: true, Rest: true},
		},
	}

	tests := map[string]struct {
		cmd       *Command
		steps     [][]string
		expInv    []int
		expGround []int
		expBag    []int
		expErr    string
	}{
		"into a bag": {
			cmd:       moveCmd,
			steps:     [][]string{{"1", "2:3"}},
			expInv:    []int{0, 1, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{0, 0, 0, 0},
			expBag:    []int{0, 0, 10, 0},
		},
		"out of a bag": {
			cmd:       moveCmd,
			steps:     [][]string{{"1", "2:1"}, {"2:1", "5"}},
			expInv:    []int{0, 1, 0, 0, 10, 0, 0, 0, 0},
			expGround: []int{0, 0, 0, 0},
			expBag:    []int{0, 0, 0, 0},
		},
		"onto the ground": {
			cmd:       moveCmd,
			steps:     [][]string{{"1", "Ground:3"}},
			expInv:    []int{0, 1, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{0, 0, 10, 0},
			expBag:    []int{0, 0, 0, 0},
		},
		"stash anywhere on the ground": {
			cmd:       stashCmd,
			steps:     [][]string{{"1", "ground:"}},
			expInv:    []int{0, 1, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{10, 0, 0, 0},
			expBag:    []int{0, 0, 0, 0},
		},
		"not a container": {
			cmd:       moveCmd,
			steps:     [][]string{{"2", "1:1"}},
			expInv:    []int{10, 1, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{0, 0, 0, 0},
			expBag:    []int{0, 0, 0, 0},
			expErr:    "Slot 1 does not hold a container.",
		},
		"unknown place": {
			cmd:       moveCmd,
			steps:     [][]string{{"1", "chest:1"}},
			expInv:    []int{10, 1, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{0, 0, 0, 0},
			expBag:    []int{0, 0, 0, 0},
			expErr:    `There is no "chest" to reach into.`,
		},
		"bag into itself": {
			cmd:       moveCmd,
			steps:     [][]string{{"2", "2:1"}},
			expInv:    []int{10, 1, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{0, 0, 0, 0},
			expBag:    []int{0, 0, 0, 0},
			expErr:    "That won't go there.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.give(t, "iron-ingot", "10")
			f.give(t, "leather-bag")
			bag := f.actor.Inventory.Get(1).Contents

			factory := map[string]HandlerFactory{
				"move":  NewMoveHandlerFactory(f.items, f.world, f.pub),
				"stash": NewStashHandlerFactory(f.items, f.world, f.pub),
			}[tt.cmd.Handler]

			var err error
			for _, args := range tt.steps {
				if err = f.run(t, tt.cmd, factory, args...); err != nil {
					break
				}
			}
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "inventory", f.counts(), tt.expInv)
			testutil.AssertEqual(t, "ground", f.groundCounts(t), tt.expGround)
			testutil.AssertEqual(t, "bag", slotCounts(bag), tt.expBag)
		})
	}
}

func TestTransferHandlers_TimeoutForgetsChange(t *testing.T) {
	cmd := &Command{
		Handler: "move",
		Config:  map[string]any{"from": "1", "to": "2"},
	}

	f := newFixture(t)
	f.give(t, "iron-ingot", "10")

	predictor := protocol.NewPredictor("alice", silentBus{})
	f.sess.Transfers = predictor

	factory := NewMoveHandlerFactory(f.items, f.world, f.pub)
	factory.timeout = 10 * time.Millisecond

	err := f.run(t, cmd, factory)
	testutil.AssertErrorContains(t, err, "The inventory did not answer in time.")
	testutil.AssertEqual(t, "pending", predictor.PendingCount(), 0)
	testutil.AssertEqual(t, "counts", f.counts(), []int{10, 0, 0, 0, 0, 0, 0, 0, 0})
}

func TestPassHandler(t *testing.T) {
	cmd := &Command{
		Handler: "pass",
		Config:  map[string]any{"from": "{{ .Inputs.from }}", "to": "{{ .Inputs.to }}"},
		Inputs: []InputSpec{
			{Name: "from", Type: InputTypeNumber, Required: true},
			{Name: "to", Type: InputTypeString, Required: true},
		},
	}

	tests := map[string]struct {
		bobHolds  map[int]int
		args      []string
		expCounts []int
		expBob    []int
		expMsg    string
		expBobMsg string
		expErr    string
	}{
		"whole stack": {
			args:      []string{"1", "bob"},
			expCounts: []int{0, 0, 0, 0, 0, 0, 0, 0, 0},
			expBob:    []int{10, 0, 0},
			expMsg:    "You pass 10 items of Iron Ingot to bob.\n",
			expBobMsg: "alice passes you 10 items of Iron Ingot.\n",
		},
		"only what fits": {
			bobHolds:  map[int]int{0: 60, 1: 1, 2: 1},
			args:      []string{"1", "BOB"},
			expCounts: []int{6, 0, 0, 0, 0, 0, 0, 0, 0},
			expBob:    []int{64, 1, 1},
			expMsg:    "You pass 4 items of Iron Ingot to bob.\n",
			expBobMsg: "alice passes you 4 items of Iron Ingot.\n",
		},
		"nothing fits": {
			bobHolds:  map[int]int{0: 64, 1: 1, 2: 1},
			args:      []string{"1", "bob"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expBob:    []int{64, 1, 1},
			expErr:    "That won't go there.",
		},
		"to yourself": {
			args:      []string{"1", "alice"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expBob:    []int{0, 0, 0},
			expErr:    "You already have it.",
		},
		"nobody": {
			args:      []string{"1", "carol"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expBob:    []int{0, 0, 0},
			expErr:    "There is nobody called carol here.",
		},
		"empty slot": {
			args:      []string{"3", "bob"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expBob:    []int{0, 0, 0},
			expErr:    "That slot is empty.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.give(t, "iron-ingot", "10")
			for slot, count := range tt.bobHolds {
				uri := "iron-sword"
				if count > 1 {
					uri = "iron-ingot"
				}
				item, _ := f.items.Resolve(uri)
				item.Count = uint8(count)
				if err := f.bob.Inventory.Set(slot, item); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			err := f.run(t, cmd, NewPassHandlerFactory(f.items, f.world, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "message", f.pub.last("alice"), tt.expMsg)
				testutil.AssertEqual(t, "bob's message", f.pub.last("bob"), tt.expBobMsg)
			}
			testutil.AssertEqual(t, "counts", f.counts(), tt.expCounts)
			testutil.AssertEqual(t, "bob's counts", slotCounts(f.bob.Inventory), tt.expBob)
		})
	}
}

func TestDropHandler(t *testing.T) {
	cmd := &Command{
		Handler: "drop",
		Config:  map[string]any{"what": "{{ .Inputs.what }}", "amount": "{{ .Inputs.amount }}"},
		Inputs: []InputSpec{
			{Name: "what", Type: InputTypeString, Required: true},
			{Name: "amount", Type: InputTypeNumber},
		},
	}

	tests := map[string]struct {
		give      []string
		onGround  map[int]int
		args      []string
		expCounts []int
		expGround []int
		expMsg    string
		expErr    string
	}{
		"whole slot": {
			give:      []string{"iron-ingot", "10"},
			args:      []string{"1"},
			expCounts: []int{0, 0, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{10, 0, 0, 0},
			expMsg:    "You drop 10 items of iron ingot.\n",
		},
		"part of a slot": {
			give:      []string{"iron-ingot", "10"},
			args:      []string{"1", "4"},
			expCounts: []int{6, 0, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{4, 0, 0, 0},
			expMsg:    "You drop 4 items of iron ingot.\n",
		},
		"by item from the last slot first": {
			give:      []string{"iron-ingot", "70"},
			args:      []string{"iron-ingot", "10"},
			expCounts: []int{60, 0, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{10, 0, 0, 0},
			expMsg:    "You drop 10 items of iron ingot.\n",
		},
		"by item defaults to one": {
			give:      []string{"torch"},
			args:      []string{"torch"},
			expCounts: []int{0, 0, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{1, 0, 0, 0},
			expMsg:    "You drop an item of torch.\n",
		},
		"only what fits stays on the ground": {
			give:      []string{"iron-ingot", "10"},
			onGround:  map[int]int{0: 1, 1: 1, 2: 1, 3: 60},
			args:      []string{"1"},
			expCounts: []int{6, 0, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{1, 1, 1, 64},
			expMsg:    "You drop 4 items of iron ingot.\n",
		},
		"no room on the ground": {
			give:      []string{"iron-ingot", "10"},
			onGround:  map[int]int{0: 1, 1: 1, 2: 1, 3: 1},
			args:      []string{"1"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{1, 1, 1, 1},
			expErr:    "There is no room on the ground.",
		},
		"empty slot": {
			give:      []string{"iron-ingot", "10"},
			args:      []string{"3"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{0, 0, 0, 0},
			expErr:    "That slot is empty.",
		},
		"more than the slot holds": {
			give:      []string{"iron-ingot", "10"},
			args:      []string{"1", "11"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{0, 0, 0, 0},
			expErr:    "You only have 10 in that slot.",
		},
		"item not held": {
			give:      []string{"iron-ingot", "10"},
			args:      []string{"gold-ingot"},
			expCounts: []int{10, 0, 0, 0, 0, 0, 0, 0, 0},
			expGround: []int{0, 0, 0, 0},
			expErr:    "You don't have any gold ingot.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.give(t, tt.give...)
			ground, err := f.world.Container(world.GroundId)
			if err != nil {
				t.Fatalf("finding ground: %v", err)
			}
			for slot, count := range tt.onGround {
				uri := "iron-sword"
				if count > 1 {
					uri = "iron-ingot"
				}
				item, _ := f.items.Resolve(uri)
				item.Count = uint8(count)
				if err := ground.Set(slot, item); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			err = f.run(t, cmd, NewDropHandlerFactory(f.items, f.world, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "message", f.pub.last("alice"), tt.expMsg)
			}
			testutil.AssertEqual(t, "counts", f.counts(), tt.expCounts)
			testutil.AssertEqual(t, "ground", f.groundCounts(t), tt.expGround)
			assertUnitsWithinStacks(t, f.actor.Inventory)
			assertUnitsWithinStacks(t, ground)
		})
	}
}

func assertUnitsWithinStacks(t *testing.T, c *inventory.Container) {
	t.Helper()
	for slot := range c.SlotCount() {
		if item := c.Get(slot); item != nil && item.MaxCount > 0 && item.Count > item.MaxCount {
			t.Errorf("%s slot %d holds %d, more than %d", c.Id(), slot, item.Count, item.MaxCount)
		}
	}
}

func TestUseHandler(t *testing.T) {
	cmd := &Command{
		Handler: "use",
		Config:  map[string]any{"slot": "{{ .Inputs.slot }}"},
		Inputs:  []InputSpec{{Name: "slot", Type: InputTypeNumber}},
	}

	tests := map[string]struct {
		give      [][]string
		selected  int
		args      []string
		expCounts []int
		expMsg    string
		expErr    string
	}{
		"consumed": {
			give:      [][]string{{"bread", "3"}},
			args:      []string{"1"},
			expCounts: []int{2, 0, 0, 0, 0, 0, 0, 0, 0},
			expMsg:    "You use up one bread, 2 left.\n",
		},
		"last one": {
			give:      [][]string{{"bread"}},
			expCounts: []int{0, 0, 0, 0, 0, 0, 0, 0, 0},
			expMsg:    "You use up one bread.\n",
		},
		"kept": {
			give:      [][]string{{"torch"}},
			args:      []string{"1"},
			expCounts: []int{1, 0, 0, 0, 0, 0, 0, 0, 0},
			expMsg:    "You use the torch.\n",
		},
		"held in hand": {
			give:      [][]string{{"torch"}, {"bread", "2"}},
			selected:  1,
			expCounts: []int{1, 1, 0, 0, 0, 0, 0, 0, 0},
			expMsg:    "You use up one bread, 1 left.\n",
		},
		"empty slot": {
			give:      [][]string{{"torch"}},
			args:      []string{"4"},
			expCounts: []int{1, 0, 0, 0, 0, 0, 0, 0, 0},
			expErr:    "That slot is empty.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			for _, args := range tt.give {
				f.give(t, args...)
			}
			if err := f.world.SelectSlot("alice", tt.selected); err != nil {
				t.Fatalf("selecting: %v", err)
			}

			err := f.run(t, cmd, NewUseHandlerFactory(f.items, f.world, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "message", f.pub.last("alice"), tt.expMsg)
			}
			testutil.AssertEqual(t, "counts", f.counts(), tt.expCounts)
		})
	}
}

func TestSelectHandler(t *testing.T) {
	cmd := &Command{
		Handler: "select",
		Config:  map[string]any{"slot": "{{ .Inputs.slot }}"},
		Inputs:  []InputSpec{{Name: "slot", Type: InputTypeNumber, Required: true}},
	}

	tests := map[string]struct {
		args        []string
		expSelected int
		expMsg      string
		expErr      string
	}{
		"in range": {
			args:        []string{"3"},
			expSelected: 2,
			expMsg:      "Slot 3 is now in hand.\n",
		},
		"past the end": {
			args:   []string{"10"},
			expErr: "You only have 9 slots.",
		},
		"slot zero": {
			args:   []string{"0"},
			expErr: "Slots are numbered from 1.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			err := f.run(t, cmd, NewSelectHandlerFactory(f.world, f.pub), tt.args...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "message", f.pub.last("alice"), tt.expMsg)
			}
			testutil.AssertEqual(t, "selected", f.world.SelectedSlot("alice"), tt.expSelected)
		})
	}
}
