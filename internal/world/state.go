package world

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-inventory/internal/inventory"
)

// Subscriber provides the ability to subscribe to message subjects
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// ContainerHook is run for every container added to the world. The returned
// func detaches whatever the hook attached.
type ContainerHook func(*inventory.Container) func()

// GroundId is the id of the shared container items are dropped into.
const GroundId = "ground"

// State is the single source of truth for every live container.
// Container mutations must run inside Do.
type State struct {
	mu         sync.RWMutex
	subscriber Subscriber
	containers map[string]*registered
	actors     map[string]*ActorState

	hooks       []ContainerHook
	idleTimeout time.Duration
	groundSlots int

	// txn serialises transfers and observer changes. Lookups only take mu
	// so they work inside Do.
	txn sync.Mutex
}

type registered struct {
	container *inventory.Container
	detach    []func()
}

type StateOpt func(*State)

// WithContainerHook runs hook for each container added afterwards.
func WithContainerHook(hook ContainerHook) StateOpt {
	return func(s *State) {
		s.hooks = append(s.hooks, hook)
	}
}

// WithIdleTimeout kicks actors that have been idle longer than d on Tick.
func WithIdleTimeout(d time.Duration) StateOpt {
	return func(s *State) {
		s.idleTimeout = d
	}
}

// WithGround registers a shared ground container with the given number of slots.
func WithGround(slots int) StateOpt {
	return func(s *State) {
		s.groundSlots = slots
	}
}

func NewState(sub Subscriber, opts ...StateOpt) *State {
	s := &State{
		subscriber: sub,
		containers: make(map[string]*registered),
		actors:     make(map[string]*ActorState),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.groundSlots > 0 {
		_ = s.addContainer(inventory.NewContainer(GroundId, s.groundSlots))
	}
	return s
}

// Do runs fn while holding the transfer lock.
func (s *State) Do(fn func() error) error {
	s.txn.Lock()
	defer s.txn.Unlock()
	return fn()
}

// AddContainer makes c addressable by its id. Must not be called inside Do.
func (s *State) AddContainer(c *inventory.Container) error {
	s.txn.Lock()
	defer s.txn.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addContainer(c)
}

func (s *State) addContainer(c *inventory.Container) error {
	if _, ok := s.containers[c.Id()]; ok {
		return fmt.Errorf("%w: %s", ErrContainerExists, c.Id())
	}

	r := &registered{container: c}
	for _, hook := range s.hooks {
		if detach := hook(c); detach != nil {
			r.detach = append(r.detach, detach)
		}
	}
	r.detach = append(r.detach, c.OnSlotChanged(s.trackContents))
	s.containers[c.Id()] = r

	for _, item := range c.Items() {
		s.addContents(item)
	}
	return nil
}

// trackContents keeps the containers inside items addressable while their
// item is held by a registered container.
func (s *State) trackContents(ev inventory.SlotChanged) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.New != nil {
		s.addContents(ev.New)
	}
	if ev.Old != nil && ev.Old.Destroyed() {
		s.removeContents(ev.Old)
	}
}

// addContents registers the container inside item. Caller holds mu.
func (s *State) addContents(item *inventory.Item) {
	if item == nil || item.Contents == nil {
		return
	}
	if _, ok := s.containers[item.Contents.Id()]; ok {
		return
	}
	_ = s.addContainer(item.Contents)
}

// removeContents forgets the container inside item and everything nested in
// it. Caller holds mu.
func (s *State) removeContents(item *inventory.Item) {
	if item == nil || item.Contents == nil {
		return
	}
	for _, nested := range item.Contents.Items() {
		s.removeContents(nested)
	}
	if _, ok := s.containers[item.Contents.Id()]; ok {
		_ = s.removeContainer(item.Contents.Id())
	}
}

// RemoveContainer forgets the container and detaches every hook.
// Must not be called inside Do.
func (s *State) RemoveContainer(id string) error {
	s.txn.Lock()
	defer s.txn.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeContainer(id)
}

func (s *State) removeContainer(id string) error {
	r, ok := s.containers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrContainerNotFound, id)
	}
	for _, detach := range r.detach {
		detach()
	}
	delete(s.containers, id)
	return nil
}

// Container returns the container registered under id.
func (s *State) Container(id string) (*inventory.Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.containers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContainerNotFound, id)
	}
	return r.container, nil
}

// GetActor returns the actor state. Returns nil if the actor is not found.
func (s *State) GetActor(id string) *ActorState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.actors[id]
}

// AddActor registers an actor together with its inventory container.
func (s *State) AddActor(id string, inv *inventory.Container, msgs chan []byte) (*ActorState, error) {
	s.txn.Lock()
	defer s.txn.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.actors[id]; exists {
		return nil, ErrActorExists
	}
	if err := s.addContainer(inv); err != nil {
		return nil, err
	}

	as := &ActorState{
		subscriber:   s.subscriber,
		subs:         make(map[string]func()),
		msgs:         msgs,
		Id:           id,
		Inventory:    inv,
		LastActivity: time.Now(),
		done:         make(chan struct{}),
	}
	s.actors[id] = as
	return as, nil
}

// RemoveActor drops the actor, its subscriptions and its inventory container.
func (s *State) RemoveActor(id string) error {
	s.txn.Lock()
	defer s.txn.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	as, exists := s.actors[id]
	if !exists {
		return ErrActorNotFound
	}

	as.UnsubscribeAll()
	delete(s.actors, id)
	for _, item := range as.Inventory.Items() {
		s.removeContents(item)
	}
	if err := s.removeContainer(as.Inventory.Id()); err != nil {
		slog.Warn("actor inventory was not registered", "actor", id, "error", err)
	}
	return nil
}

// SetActorQuit sets the quit flag for an actor.
func (s *State) SetActorQuit(id string, quit bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	as, exists := s.actors[id]
	if !exists {
		return ErrActorNotFound
	}
	as.Quit = quit
	return nil
}

// ActorQuit reports whether the actor asked to leave.
func (s *State) ActorQuit(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	as, exists := s.actors[id]
	return exists && as.Quit
}

// SelectSlot makes slot the actor's selected inventory slot.
func (s *State) SelectSlot(id string, slot int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	as, exists := s.actors[id]
	if !exists {
		return ErrActorNotFound
	}
	if slot < 0 || slot >= as.Inventory.SlotCount() {
		return fmt.Errorf("%w: %d", ErrSlotOutOfRange, slot)
	}
	as.selected = slot
	return nil
}

// SelectedSlot returns the actor's selected inventory slot, 0 until one is chosen.
func (s *State) SelectedSlot(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if as, ok := s.actors[id]; ok {
		return as.selected
	}
	return 0
}

// MarkActorActive resets the actor's idle timer.
func (s *State) MarkActorActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if as, ok := s.actors[id]; ok {
		as.LastActivity = time.Now()
	}
}

// ForEachActor calls fn for each actor while holding the lock.
func (s *State) ForEachActor(fn func(string, *ActorState)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, as := range s.actors {
		fn(id, as)
	}
}

// Tick kicks idle actors.
func (s *State) Tick(ctx context.Context) error {
	if s.idleTimeout <= 0 {
		return nil
	}

	now := time.Now()
	s.ForEachActor(func(id string, as *ActorState) {
		if !as.Kicked() && now.Sub(as.LastActivity) > s.idleTimeout {
			slog.InfoContext(ctx, "kicking idle actor", "actor", id, "idle", now.Sub(as.LastActivity).Round(time.Second))
			as.Kick()
		}
	})
	return nil
}
