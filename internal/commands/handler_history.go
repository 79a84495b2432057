package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-inventory/internal/journal"
)

const defaultHistoryLimit = 10

// Historian reads back recorded slot changes.
type Historian interface {
	Recent(ctx context.Context, containerId string, limit int) ([]journal.Entry, error)
}

// HistoryHandlerFactory shows the latest recorded changes to the actor's inventory.
// Config:
//   - limit (optional): number of entries, defaults to 10
type HistoryHandlerFactory struct {
	journal Historian
	pub     ActorPublisher
}

func NewHistoryHandlerFactory(j Historian, pub ActorPublisher) *HistoryHandlerFactory {
	return &HistoryHandlerFactory{journal: j, pub: pub}
}

func (f *HistoryHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *HistoryHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		limit, err := configInt(cmdCtx, "limit", defaultHistoryLimit)
		if err != nil {
			return err
		}
		if limit < 1 {
			return NewUserError("Ask for at least one entry.")
		}

		entries, err := f.journal.Recent(ctx, cmdCtx.Actor().Inventory.Id(), limit)
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if len(entries) == 0 {
			return tell(f.pub, cmdCtx, "Nothing has changed yet.")
		}

		var sb strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&sb, "  %s  slot %d: %s\n", e.At.Format("15:04:05"), e.Slot+1, describeEntry(e))
		}
		return tell(f.pub, cmdCtx, sb.String())
	}, nil
}

func describeEntry(e journal.Entry) string {
	switch e.Kind {
	case journal.KindPut:
		return fmt.Sprintf("%s x%d placed", e.ItemName, e.NewCount)
	case journal.KindClear:
		return fmt.Sprintf("%s x%d taken", e.ItemName, e.OldCount)
	case journal.KindReplace:
		return fmt.Sprintf("swapped in %s x%d", e.ItemName, e.NewCount)
	case journal.KindResize:
		return fmt.Sprintf("%s %d -> %d", e.ItemName, e.OldCount, e.NewCount)
	default:
		return e.Kind
	}
}
