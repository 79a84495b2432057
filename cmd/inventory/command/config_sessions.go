package command

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-inventory/internal/journal"
)

type SessionConfig struct {
	Slots       int    `json:"slots"`
	DefaultKit  string `json:"default_kit,omitempty"`
	IdleTimeout string `json:"idle_timeout,omitempty"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if c.Slots < 1 {
		el.Add(fmt.Errorf("sessions: slots must be at least 1"))
	}
	if c.IdleTimeout != "" {
		if _, err := time.ParseDuration(c.IdleTimeout); err != nil {
			el.Add(fmt.Errorf("sessions: parsing idle_timeout: %w", err))
		}
	}

	return el.Err()
}

func (c *SessionConfig) idleTimeout() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}

const defaultGroundSlots = 27

// GroundConfig sizes the shared container actors drop items onto.
type GroundConfig struct {
	Slots int `json:"slots,omitempty"`
}

func (c *GroundConfig) validate() error {
	if c.Slots < 0 {
		return fmt.Errorf("ground: slots cannot be negative")
	}
	return nil
}

func (c *GroundConfig) slots() int {
	if c.Slots == 0 {
		return defaultGroundSlots
	}
	return c.Slots
}

type JournalConfig struct {
	Path string `json:"path"`
}

func (c *JournalConfig) validate() error {
	if c.Path == "" {
		return fmt.Errorf("journal: path is required")
	}
	return nil
}

func (c *JournalConfig) open() (*journal.Journal, error) {
	return journal.Open(filepath.Clean(c.Path))
}
