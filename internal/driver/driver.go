package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
)

// Manager is anything with periodic work: journal flushes, idle checks.
type Manager interface {
	Tick(context.Context) error
}

// TickDriver calls every manager once per tick until its context ends.
type TickDriver struct {
	tickLength time.Duration
	managers   map[string]Manager
}

func NewTickDriver(managers map[string]Manager, opts ...TickDriverOpt) *TickDriver {
	d := &TickDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *TickDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs every manager once. A failing manager is logged and does not stop the others.
func (d *TickDriver) Tick(ctx context.Context) int {
	failed := 0
	for name, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			failed++
			slog.ErrorContext(ctx, "tick failed", "manager", name, "error", err)
		}
	}
	return failed
}
