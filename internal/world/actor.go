package world

import (
	"fmt"
	"sync"
	"time"

	"github.com/pixil98/go-inventory/internal/inventory"
)

// ActorState holds the mutable state of a connected actor.
type ActorState struct {
	subscriber Subscriber
	msgs       chan []byte

	Id        string
	Inventory *inventory.Container

	subs   map[string]func()
	subsMu sync.Mutex

	Quit         bool
	LastActivity time.Time

	// selected is the inventory slot the actor holds in hand.
	selected int

	// done is closed to tell the session loop to exit.
	done     chan struct{}
	doneOnce sync.Once
}

// Done returns the channel that is closed when the actor is kicked.
func (a *ActorState) Done() <-chan struct{} {
	return a.done
}

// Kick closes the done channel. Safe to call more than once.
func (a *ActorState) Kick() {
	a.doneOnce.Do(func() { close(a.done) })
}

// Kicked reports whether Kick was called.
func (a *ActorState) Kicked() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

// Subscribe forwards messages on subject to the actor's message channel.
func (a *ActorState) Subscribe(subject string) error {
	if a.subscriber == nil {
		return fmt.Errorf("subscriber is nil")
	}

	unsub, err := a.subscriber.Subscribe(subject, func(data []byte) {
		select {
		case a.msgs <- data:
		case <-a.done:
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to channel '%s': %w", subject, err)
	}

	a.subsMu.Lock()
	defer a.subsMu.Unlock()

	// Replace a subscription we somehow already hold.
	if old, ok := a.subs[subject]; ok {
		old()
	}
	a.subs[subject] = unsub
	return nil
}

// Unsubscribe removes a subscription by subject.
func (a *ActorState) Unsubscribe(subject string) {
	a.subsMu.Lock()
	defer a.subsMu.Unlock()

	if unsub, ok := a.subs[subject]; ok {
		unsub()
		delete(a.subs, subject)
	}
}

// UnsubscribeAll removes all subscriptions.
func (a *ActorState) UnsubscribeAll() {
	a.subsMu.Lock()
	defer a.subsMu.Unlock()

	for subject, unsub := range a.subs {
		unsub()
		delete(a.subs, subject)
	}
}
