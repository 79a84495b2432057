package command

import (
	"fmt"

	"github.com/pixil98/go-inventory/internal/catalog"
	"github.com/pixil98/go-inventory/internal/commands"
	"github.com/pixil98/go-inventory/internal/driver"
	"github.com/pixil98/go-inventory/internal/listener"
	"github.com/pixil98/go-inventory/internal/messaging"
	"github.com/pixil98/go-inventory/internal/protocol"
	"github.com/pixil98/go-inventory/internal/session"
	"github.com/pixil98/go-inventory/internal/storage"
	"github.com/pixil98/go-inventory/internal/world"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	j, err := cfg.Journal.open()
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	items, err := cfg.Storage.buildItemStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	kits, err := cfg.Storage.Kits.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating kit store: %w", err)
	}
	cmds, err := cfg.Storage.Commands.buildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating command store: %w", err)
	}

	events := messaging.NewEventPublisher(natsServer)
	worldOpts := []world.StateOpt{
		world.WithContainerHook(j.Attach),
		world.WithContainerHook(events.Attach),
		world.WithGround(cfg.Ground.slots()),
	}
	if d := cfg.Sessions.idleTimeout(); d > 0 {
		worldOpts = append(worldOpts, world.WithIdleTimeout(d))
	}
	w := world.NewState(natsServer, worldOpts...)

	resolver := catalog.NewResolver(items)
	pub := messaging.NewNatsPublisher(natsServer)

	cmdHandler, err := buildCommandHandler(cmds, resolver, w, j, pub)
	if err != nil {
		return nil, err
	}

	sessions := session.NewSessionManager(w, cmdHandler, resolver, natsServer,
		session.WithSlots(cfg.Sessions.Slots),
		session.WithKits(storage.NewSelectableStorer(kits, storage.WithDefault(cfg.Sessions.DefaultKit))),
		session.WithBroadcaster(pub),
	)

	cm := listener.NewConnectionManager(sessions)
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		lw, err := l.buildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = lw
	}

	tickDriver := driver.NewTickDriver(map[string]driver.Manager{
		"journal": j,
		"world":   w,
	}, driver.WithTickLength(cfg.tickInterval()))

	return service.WorkerList{
		"nats":      natsServer,
		"journal":   j,
		"authority": protocol.NewAuthority(natsServer, w),
		"sessions":  sessions,
		"driver":    tickDriver,
		"listeners": &listeners,
	}, nil
}

func buildCommandHandler(cmds storage.Storer[*commands.Command], items *catalog.Resolver, w *world.State, j commands.Historian, pub *messaging.NatsPublisher) (*commands.Handler, error) {
	h := commands.NewHandler(cmds)

	factories := map[string]commands.HandlerFactory{
		"give":      commands.NewGiveHandlerFactory(items, w, pub),
		"bulkgive":  commands.NewBulkGiveHandlerFactory(items, w, pub),
		"remove":    commands.NewRemoveHandlerFactory(items, w, pub),
		"items":     commands.NewItemsHandlerFactory(items, pub),
		"inventory": commands.NewInventoryHandlerFactory(items, w, pub),
		"move":      commands.NewMoveHandlerFactory(items, w, pub),
		"split":     commands.NewSplitHandlerFactory(items, w, pub),
		"stash":     commands.NewStashHandlerFactory(items, w, pub),
		"pass":      commands.NewPassHandlerFactory(items, w, pub),
		"drop":      commands.NewDropHandlerFactory(items, w, pub),
		"use":       commands.NewUseHandlerFactory(items, w, pub),
		"select":    commands.NewSelectHandlerFactory(w, pub),
		"history":   commands.NewHistoryHandlerFactory(j, pub),
		"help":      commands.NewHelpHandlerFactory(h, pub),
		"quit":      commands.NewQuitHandlerFactory(w),
	}
	for name, f := range factories {
		if err := h.RegisterFactory(name, f); err != nil {
			return nil, fmt.Errorf("registering %s handler: %w", name, err)
		}
	}

	if err := h.CompileAll(); err != nil {
		return nil, fmt.Errorf("compiling commands: %w", err)
	}
	return h, nil
}
