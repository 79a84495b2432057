package commands

import (
	"context"
	"fmt"
	"strings"
)

// HelpHandlerFactory lists commands, or shows the help line of one.
// Config:
//   - command (optional): the command to describe
type HelpHandlerFactory struct {
	handler *Handler
	pub     ActorPublisher
}

func NewHelpHandlerFactory(h *Handler, pub ActorPublisher) *HelpHandlerFactory {
	return &HelpHandlerFactory{handler: h, pub: pub}
}

func (f *HelpHandlerFactory) ValidateConfig(config map[string]any) error {
	return nil
}

func (f *HelpHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		name := strings.TrimSpace(cmdCtx.Config["command"])
		if name != "" {
			help, ok := f.handler.Help(name)
			if !ok {
				return NewUserError(fmt.Sprintf("Unknown command: %s", name))
			}
			if help == "" {
				help = "No help available."
			}
			return tell(f.pub, cmdCtx, fmt.Sprintf("%s: %s", name, help))
		}

		var sb strings.Builder
		sb.WriteString("Commands:\n")
		for _, cmd := range f.handler.Commands() {
			help, _ := f.handler.Help(cmd)
			fmt.Fprintf(&sb, "  %-10s %s\n", cmd, help)
		}
		return tell(f.pub, cmdCtx, sb.String())
	}, nil
}
