package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-inventory/internal/inventory"
)

const (
	EventSlotChanged      = "slot_changed"
	EventStackSizeChanged = "stack_size_changed"
)

// ContainerSubject is the subject notifications for a container are published on.
func ContainerSubject(containerId string) string {
	return fmt.Sprintf("container.%s.events", containerId)
}

// ItemView is the wire form of an item in a notification.
type ItemView struct {
	Id           string `json:"id"`
	DefinitionId string `json:"definition_id,omitempty"`
	StackId      string `json:"stack_id,omitempty"`
	Count        uint8  `json:"count"`
	MaxCount     uint8  `json:"max_count"`
}

func viewOf(i *inventory.Item) *ItemView {
	if i == nil {
		return nil
	}
	return &ItemView{
		Id:           i.Id(),
		DefinitionId: i.DefinitionId,
		StackId:      i.StackId,
		Count:        i.Count,
		MaxCount:     i.MaxCount,
	}
}

// ContainerEvent is published after a container slot changed.
type ContainerEvent struct {
	Type      string    `json:"type"`
	Container string    `json:"container"`
	Slot      int       `json:"slot"`
	Old       *ItemView `json:"old,omitempty"`
	New       *ItemView `json:"new,omitempty"`
	OldCount  uint8     `json:"old_count,omitempty"`
	NewCount  uint8     `json:"new_count,omitempty"`
}

// EventPublisher forwards container notifications to the message bus.
type EventPublisher struct {
	pub Publisher
}

func NewEventPublisher(pub Publisher) *EventPublisher {
	return &EventPublisher{pub: pub}
}

// Attach starts publishing notifications from c. The returned func stops it.
func (p *EventPublisher) Attach(c *inventory.Container) func() {
	offSlot := c.OnSlotChanged(func(ev inventory.SlotChanged) {
		p.publish(ContainerEvent{
			Type:      EventSlotChanged,
			Container: ev.Container.Id(),
			Slot:      ev.Slot,
			Old:       viewOf(ev.Old),
			New:       viewOf(ev.New),
		})
	})
	offSize := c.OnStackSizeChanged(func(ev inventory.StackSizeChanged) {
		p.publish(ContainerEvent{
			Type:      EventStackSizeChanged,
			Container: ev.Container.Id(),
			Slot:      ev.Slot,
			New:       viewOf(ev.Item),
			OldCount:  ev.Old,
			NewCount:  ev.New,
		})
	})

	return func() {
		offSlot()
		offSize()
	}
}

func (p *EventPublisher) publish(ev ContainerEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("marshalling container event", "container", ev.Container, "error", err)
		return
	}
	if err := p.pub.Publish(ContainerSubject(ev.Container), data); err != nil {
		slog.Warn("publishing container event", "container", ev.Container, "error", err)
	}
}
