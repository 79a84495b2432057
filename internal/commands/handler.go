package commands

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/go-inventory/internal/protocol"
	"github.com/pixil98/go-inventory/internal/storage"
	"github.com/pixil98/go-inventory/internal/world"
)

// CommandFunc is the signature for compiled command functions.
type CommandFunc func(ctx context.Context, cmdCtx *CommandContext) error

// HandlerFactory creates CommandFuncs from command configurations.
type HandlerFactory interface {
	// ValidateConfig validates that the config contains required fields.
	ValidateConfig(config map[string]any) error
	// Create creates a CommandFunc. Config arrives expanded on each call.
	Create() (CommandFunc, error)
}

// Transferer submits transfers to the authority on behalf of one actor.
type Transferer interface {
	Move(from string, fromSlot int, to string, toSlot int) (*protocol.Pending, error)
	MoveAmount(from string, fromSlot int, to string, toSlot int, amount int) (*protocol.Pending, error)
	MoveToSlots(from string, fromSlot int, to string, toSlots []int) (*protocol.Pending, error)
	// Forget drops a transfer that is no longer waited on.
	Forget(changeId uint64)
}

// Session is what a command knows about the actor running it.
type Session struct {
	Actor     *world.ActorState
	Transfers Transferer
}

// CommandContext is handed to a compiled command on every run.
type CommandContext struct {
	Session *Session
	Inputs  map[string]any
	Config  map[string]string
}

// Actor is a shortcut for the running actor.
func (c *CommandContext) Actor() *world.ActorState {
	return c.Session.Actor
}

func (c *CommandContext) intInput(name string, fallback int) int {
	if v, ok := c.Inputs[name].(int); ok {
		return v
	}
	return fallback
}

func (c *CommandContext) stringInput(name string) string {
	s, _ := c.Inputs[name].(string)
	return s
}

// ActorPublisher delivers text to a single actor.
type ActorPublisher interface {
	PublishToActor(actorId string, data []byte) error
}

// compiledCommand holds a command that's been validated and compiled.
type compiledCommand struct {
	cmd     *Command
	cmdFunc CommandFunc
}

type Handler struct {
	store     storage.Storer[*Command]
	factories map[string]HandlerFactory
	compiled  map[string]*compiledCommand
}

func NewHandler(c storage.Storer[*Command]) *Handler {
	return &Handler{
		store:     c,
		factories: make(map[string]HandlerFactory),
		compiled:  make(map[string]*compiledCommand),
	}
}

// RegisterFactory registers a handler factory by name.
// The name must match the "handler" field in command definitions.
func (h *Handler) RegisterFactory(name string, factory HandlerFactory) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("handler factory cannot be nil")
	}
	if _, exists := h.factories[name]; exists {
		return fmt.Errorf("handler factory %q already registered", name)
	}
	h.factories[name] = factory
	return nil
}

// CompileAll compiles all commands from the store.
// Call this after all handler factories have been registered.
func (h *Handler) CompileAll() error {
	for id, cmd := range h.store.GetAll() {
		err := h.compile(id, cmd)
		if err != nil {
			return fmt.Errorf("compiling command %q: %w", id, err)
		}
	}
	return nil
}

func (h *Handler) compile(id string, cmd *Command) error {
	factory, ok := h.factories[cmd.Handler]
	if !ok {
		return fmt.Errorf("unknown handler %q", cmd.Handler)
	}

	if err := factory.ValidateConfig(cmd.Config); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	cmdFunc, err := factory.Create()
	if err != nil {
		return fmt.Errorf("creating handler: %w", err)
	}

	h.compiled[strings.ToLower(id)] = &compiledCommand{
		cmd:     cmd,
		cmdFunc: cmdFunc,
	}
	return nil
}

// Commands returns the compiled command names in sorted order.
func (h *Handler) Commands() []string {
	return slices.Sorted(maps.Keys(h.compiled))
}

// Help returns the help line of a compiled command.
func (h *Handler) Help(name string) (string, bool) {
	compiled, ok := h.compiled[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return compiled.cmd.Help, true
}

// Exec executes a command with the given arguments.
func (h *Handler) Exec(ctx context.Context, sess *Session, cmdName string, rawArgs ...string) error {
	compiled, ok := h.compiled[strings.ToLower(cmdName)]
	if !ok {
		return NewUserError(fmt.Sprintf("Unknown command: %s", cmdName))
	}

	inputs, err := parseInputs(compiled.cmd.Inputs, rawArgs)
	if err != nil {
		return err
	}

	config, err := expandConfig(compiled.cmd.Config, inputs)
	if err != nil {
		return fmt.Errorf("expanding config: %w", err)
	}

	return compiled.cmdFunc(ctx, &CommandContext{
		Session: sess,
		Inputs:  inputs,
		Config:  config,
	})
}

// parseInputs validates raw string arguments against input specs.
func parseInputs(specs []InputSpec, rawArgs []string) (map[string]any, error) {
	requiredCount := 0
	for _, spec := range specs {
		if spec.Required {
			requiredCount++
		}
	}

	if len(rawArgs) < requiredCount {
		return nil, NewUserError(fmt.Sprintf("Expected at least %d argument(s), got %d", requiredCount, len(rawArgs)))
	}

	hasRest := len(specs) > 0 && specs[len(specs)-1].Rest
	if !hasRest && len(rawArgs) > len(specs) {
		return nil, NewUserError(fmt.Sprintf("Expected at most %d argument(s), got %d", len(specs), len(rawArgs)))
	}

	inputs := make(map[string]any, len(specs))
	argIndex := 0

	for _, spec := range specs {
		if argIndex >= len(rawArgs) {
			break
		}

		var raw string
		if spec.Rest {
			raw = strings.Join(rawArgs[argIndex:], " ")
			argIndex = len(rawArgs)
		} else {
			raw = rawArgs[argIndex]
			argIndex++
		}

		value, err := parseValue(spec.Type, raw)
		if err != nil {
			return nil, err
		}
		inputs[spec.Name] = value
	}

	return inputs, nil
}

// parseValue parses a raw string into the appropriate type.
func parseValue(inputType InputType, raw string) (any, error) {
	switch inputType {
	case InputTypeString:
		return raw, nil

	case InputTypeNumber:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, NewUserError(fmt.Sprintf("%q is not a valid number.", raw))
		}
		return n, nil

	default:
		return nil, fmt.Errorf("unknown input type %q", inputType)
	}
}
