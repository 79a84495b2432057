package catalog

import (
	"fmt"
	"math"

	"github.com/pixil98/go-errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ItemDef describes a kind of item loaded from asset files.
// Any number of items can be created from one definition.
type ItemDef struct {
	// Name is shown to players (e.g., "iron ingot").
	Name string `json:"name"`

	// StackId groups items that may merge. Leave empty for items that never stack.
	StackId string `json:"stack_id,omitempty"`

	// MaxStack is the largest count a single slot may hold. Defaults to 1.
	MaxStack int `json:"max_stack,omitempty"`

	// Slots gives created items their own container of this size (bags, chests).
	Slots int `json:"slots,omitempty"`

	// Attributes must match exactly for two items to merge.
	Attributes map[string]string `json:"attributes,omitempty"`

	// ConsumedOnUse removes one unit each time the item is used.
	ConsumedOnUse bool `json:"consumed_on_use,omitempty"`
}

// Stackable reports whether items of this definition can share a slot.
func (d *ItemDef) Stackable() bool {
	return d.StackId != "" && d.maxStack() > 1
}

func (d *ItemDef) maxStack() int {
	if d.MaxStack < 1 {
		return 1
	}
	return d.MaxStack
}

// Validate satisfies storage.ValidatingSpec
func (d *ItemDef) Validate() error {
	el := errors.NewErrorList()
	if d.Name == "" {
		el.Add(fmt.Errorf("item name is required"))
	}
	if d.MaxStack < 0 || d.MaxStack > math.MaxUint8 {
		el.Add(fmt.Errorf("max_stack %d is out of range [1,%d]", d.MaxStack, math.MaxUint8))
	}
	if d.MaxStack > 1 && d.StackId == "" {
		el.Add(fmt.Errorf("max_stack requires a stack_id"))
	}
	if d.Slots < 0 {
		el.Add(fmt.Errorf("slots must not be negative"))
	}
	if d.Slots > 0 && d.MaxStack > 1 {
		el.Add(fmt.Errorf("items with slots cannot stack"))
	}
	return el.Err()
}

const itemSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "id", "spec"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "id": {"type": "string", "pattern": "^[a-zA-Z0-9-]+$"},
    "spec": {
      "type": "object",
      "required": ["name"],
      "additionalProperties": false,
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "stack_id": {"type": "string"},
        "max_stack": {"type": "integer", "minimum": 1, "maximum": 255},
        "slots": {"type": "integer", "minimum": 0},
        "consumed_on_use": {"type": "boolean"},
        "attributes": {
          "type": "object",
          "additionalProperties": {"type": "string"}
        }
      },
      "if": {"required": ["slots"], "properties": {"slots": {"minimum": 1}}},
      "then": {"properties": {"max_stack": {"maximum": 1}}}
    }
  }
}`

// ItemSchema returns the JSON Schema item definition assets must satisfy.
func ItemSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.CompileString("item.schema.json", itemSchema)
	if err != nil {
		return nil, fmt.Errorf("compiling item schema: %w", err)
	}
	return schema, nil
}
