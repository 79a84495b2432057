package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/pixil98/go-inventory/internal"
	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/commands"
	"github.com/pixil98/go-inventory/internal/inventory"
	"github.com/pixil98/go-inventory/internal/messaging"
	"github.com/pixil98/go-inventory/internal/protocol"
	"github.com/pixil98/go-inventory/internal/storage"
	"github.com/pixil98/go-inventory/internal/world"
)

const (
	defaultSlots      = 36
	maxNameLength     = 20
	maxLoginTries     = 5
	messageBufferSize = 64
)

type readyWaiter interface {
	WaitReady(ctx context.Context) error
}

// Broadcaster sends text to many actors at once.
type Broadcaster interface {
	PublishToActors(actorIds []string, exclude []string, data []byte) error
}

// SessionManager runs one session per connection.
type SessionManager struct {
	world  *world.State
	cmds   *commands.Handler
	kits   *storage.SelectableStorer[*catalog.Kit]
	items  catalog.ItemResolver
	bus    protocol.Bus
	notify Broadcaster

	slots int
}

type ManagerOpt func(*SessionManager)

// WithSlots sets the size of every new inventory.
func WithSlots(n int) ManagerOpt {
	return func(m *SessionManager) {
		if n > 0 {
			m.slots = n
		}
	}
}

// WithKits offers the stored kits as starting inventories.
func WithKits(kits *storage.SelectableStorer[*catalog.Kit]) ManagerOpt {
	return func(m *SessionManager) {
		m.kits = kits
	}
}

// WithBroadcaster warns connected actors when the manager shuts down.
func WithBroadcaster(b Broadcaster) ManagerOpt {
	return func(m *SessionManager) {
		m.notify = b
	}
}

func NewSessionManager(w *world.State, cmds *commands.Handler, items catalog.ItemResolver, bus protocol.Bus, opts ...ManagerOpt) *SessionManager {
	m := &SessionManager{
		world: w,
		cmds:  cmds,
		items: items,
		bus:   bus,
		slots: defaultSlots,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start waits for ctx to end, then kicks every connected actor.
func (m *SessionManager) Start(ctx context.Context) error {
	<-ctx.Done()

	var ids []string
	m.world.ForEachActor(func(id string, as *world.ActorState) {
		ids = append(ids, id)
	})

	if m.notify != nil && len(ids) > 0 {
		if err := m.notify.PublishToActors(ids, nil, []byte("The server is shutting down.\n")); err != nil {
			slog.Warn("announcing shutdown", "error", err)
		}
	}

	m.world.ForEachActor(func(id string, as *world.ActorState) {
		as.Kick()
	})
	return nil
}

// RunSession logs a connection in, stocks its inventory and serves its
// commands until it quits, is kicked or disconnects.
func (m *SessionManager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	if rw, ok := m.bus.(readyWaiter); ok {
		if err := rw.WaitReady(ctx); err != nil {
			return fmt.Errorf("waiting for bus: %w", err)
		}
	}

	rw := internal.NewLineReadWriter(conn)

	if _, err := io.WriteString(rw, "Welcome to the inventory server!\n"); err != nil {
		return err
	}

	name, err := m.login(rw)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	id := strings.ToLower(name)

	kit, err := m.chooseKit(rw)
	if err != nil {
		return fmt.Errorf("choosing kit: %w", err)
	}

	msgs := make(chan []byte, messageBufferSize)
	actor, err := m.world.AddActor(id, inventory.NewContainer("inv-"+id, m.slots), msgs)
	if errors.Is(err, world.ErrActorExists) {
		_, err = io.WriteString(rw, "That name is already connected.\n")
		return err
	}
	if err != nil {
		return fmt.Errorf("adding actor: %w", err)
	}
	defer func() {
		if err := m.world.RemoveActor(id); err != nil {
			slog.Warn("removing actor", "actor", id, "error", err)
		}
	}()

	if kit != nil {
		var placed int
		_ = m.world.Do(func() error {
			placed = catalog.Stock(actor.Inventory, kit.Items, m.items)
			return nil
		})
		slog.InfoContext(ctx, "stocked inventory", "actor", id, "kit", kit.Name, "units", placed)
	}

	if err := actor.Subscribe(messaging.ActorSubject(id)); err != nil {
		return fmt.Errorf("subscribing to actor messages: %w", err)
	}

	predictor := protocol.NewPredictor(id, m.bus)
	stop, err := predictor.Listen()
	if err != nil {
		return err
	}
	defer stop()

	s := &session{
		rw:    rw,
		world: m.world,
		cmds:  m.cmds,
		actor: actor,
		msgs:  msgs,
		ctx:   &commands.Session{Actor: actor, Transfers: predictor},
	}

	slog.InfoContext(ctx, "session started", "actor", id)
	defer slog.InfoContext(ctx, "session ended", "actor", id)

	return s.play(ctx)
}

func (m *SessionManager) login(rw io.ReadWriter) (string, error) {
	for {
		name, err := internal.Prompt(rw, "By what name do you wish to be known? ",
			internal.WithValidator(validName), internal.WithMaxTries(maxLoginTries))
		if err != nil {
			return "", err
		}

		if m.world.GetActor(strings.ToLower(name)) != nil {
			if _, err := io.WriteString(rw, "That name is already connected.\n"); err != nil {
				return "", err
			}
			continue
		}
		return name, nil
	}
}

func validName(str string) (bool, string) {
	if str == "" || len(str) > maxNameLength {
		return false, "Invalid name, please try another.\n"
	}
	for _, r := range str {
		if !unicode.IsLetter(r) {
			return false, "Invalid name, please try another.\n"
		}
	}
	return true, ""
}

// chooseKit returns nil when no kits are configured.
func (m *SessionManager) chooseKit(rw io.ReadWriter) (*catalog.Kit, error) {
	if m.kits == nil || len(m.kits.GetAll()) == 0 {
		return nil, nil
	}

	kitId, err := m.kits.Prompt(rw, "Choose a starting kit:")
	if err != nil {
		return nil, err
	}
	return m.kits.Get(kitId), nil
}
