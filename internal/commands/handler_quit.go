package commands

import (
	"context"
)

// QuitSetter flags an actor as leaving.
type QuitSetter interface {
	SetActorQuit(id string, quit bool) error
}

// QuitHandlerFactory ends the actor's session after the current command.
type QuitHandlerFactory struct {
	world QuitSetter
}

func NewQuitHandlerFactory(world QuitSetter) *QuitHandlerFactory {
	return &QuitHandlerFactory{world: world}
}

func (f *QuitHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *QuitHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		return f.world.SetActorQuit(cmdCtx.Actor().Id, true)
	}, nil
}
