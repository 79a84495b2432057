package commands

import (
	"fmt"
)

// InputType represents the type of a command input parameter.
type InputType string

const (
	InputTypeString InputType = "string" // Text input (single word if rest=false, multi-word if rest=true)
	InputTypeNumber InputType = "number" // Integer
)

// InputSpec defines an input parameter that a command accepts from user input.
type InputSpec struct {
	Name     string    `json:"name"`
	Type     InputType `json:"type"`
	Required bool      `json:"required"`
	Rest     bool      `json:"rest"` // If true, captures all remaining input
}

// Command defines a command loaded from asset files.
type Command struct {
	Handler string         `json:"handler"`
	Help    string         `json:"help,omitempty"`
	Config  map[string]any `json:"config,omitempty"` // Passed to the handler, string values may reference inputs
	Inputs  []InputSpec    `json:"inputs,omitempty"`
}

func (c *Command) Validate() error {
	if c.Handler == "" {
		return fmt.Errorf("command handler not set")
	}

	seen := make(map[string]bool)
	for i, input := range c.Inputs {
		if input.Name == "" {
			return fmt.Errorf("input %d: name is required", i)
		}
		if seen[input.Name] {
			return fmt.Errorf("input %q: declared twice", input.Name)
		}
		seen[input.Name] = true

		switch input.Type {
		case InputTypeString, InputTypeNumber:
		case "":
			return fmt.Errorf("input %q: type is required", input.Name)
		default:
			return fmt.Errorf("input %q: unknown type %q", input.Name, input.Type)
		}

		// Only the last input can have rest=true
		if input.Rest && i != len(c.Inputs)-1 {
			return fmt.Errorf("input %q: only the last input can have rest=true", input.Name)
		}
		if input.Required && i > 0 && !c.Inputs[i-1].Required {
			return fmt.Errorf("input %q: required inputs must come before optional ones", input.Name)
		}
	}

	return nil
}
