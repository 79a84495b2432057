package commands

import (
	"fmt"
	"strconv"
	"strings"
)

// tell sends msg to the actor running the command.
func tell(pub ActorPublisher, cmdCtx *CommandContext, msg string) error {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	return pub.PublishToActor(cmdCtx.Actor().Id, []byte(msg))
}

// configInt reads an integer config value, falling back when it is unset.
func configInt(cmdCtx *CommandContext, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(cmdCtx.Config[key])
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewUserError(fmt.Sprintf("%q is not a valid number.", raw))
	}
	return n, nil
}

// configSlot reads a slot number as typed by a player, counting from 1.
func configSlot(cmdCtx *CommandContext, key string) (int, error) {
	return parseSlot(cmdCtx.Config[key])
}

// configSlots reads a space or comma separated list of slot numbers.
func configSlots(cmdCtx *CommandContext, key string) ([]int, error) {
	slots, err := parseSlots(cmdCtx.Config[key])
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, NewUserError("Name at least one slot.")
	}
	return slots, nil
}

// parseSlot turns a 1-based slot number into a slot index.
func parseSlot(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewUserError(fmt.Sprintf("%q is not a valid number.", raw))
	}
	if n < 1 {
		return 0, NewUserError("Slots are numbered from 1.")
	}
	return n - 1, nil
}

func parseSlots(raw string) ([]int, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ','
	})

	slots := make([]int, 0, len(fields))
	for _, f := range fields {
		slot, err := parseSlot(f)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// unitsOf phrases a count of some item the way confirmations read.
func unitsOf(n int, name string) string {
	if n == 1 {
		return "an item of " + name
	}
	return fmt.Sprintf("%d items of %s", n, name)
}
