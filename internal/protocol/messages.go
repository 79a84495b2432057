package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-inventory/internal/inventory"
)

// RequestSubject is where the authority listens for transfer requests.
const RequestSubject = "inventory.requests"

// AckSubject is where acks for requests issued by instigator are sent.
func AckSubject(instigator string) string {
	return fmt.Sprintf("inventory.acks.%s", instigator)
}

type RequestType string

const (
	TypeMove        RequestType = "move"
	TypeMoveAmount  RequestType = "move_amount"
	TypeMoveToSlots RequestType = "move_to_slots"
)

// Envelope is the wire form of a request.
type Envelope struct {
	Type RequestType     `json:"type"`
	Body json.RawMessage `json:"body"`
}

// Transfer is common to every request.
type Transfer struct {
	Instigator string `json:"instigator"`
	From       string `json:"from"`
	FromSlot   int    `json:"from_slot"`
	To         string `json:"to"`
	ChangeId   uint64 `json:"change_id"`
}

func (t *Transfer) transfer() *Transfer {
	return t
}

// Request is a transfer intent that can be applied to a pair of containers.
type Request interface {
	Type() RequestType
	transfer() *Transfer
	apply(from, to *inventory.Container) bool
}

type MoveRequest struct {
	Transfer
	ToSlot int `json:"to_slot"`
}

func (r *MoveRequest) Type() RequestType { return TypeMove }

func (r *MoveRequest) apply(from, to *inventory.Container) bool {
	return inventory.Move(r.Instigator, from, r.FromSlot, to, r.ToSlot)
}

type MoveAmountRequest struct {
	Transfer
	ToSlot int `json:"to_slot"`
	Amount int `json:"amount"`
}

func (r *MoveAmountRequest) Type() RequestType { return TypeMoveAmount }

func (r *MoveAmountRequest) apply(from, to *inventory.Container) bool {
	return inventory.MoveAmount(r.Instigator, from, r.FromSlot, to, r.ToSlot, r.Amount)
}

type MoveToSlotsRequest struct {
	Transfer
	ToSlots []int `json:"to_slots"`
}

func (r *MoveToSlotsRequest) Type() RequestType { return TypeMoveToSlots }

func (r *MoveToSlotsRequest) apply(from, to *inventory.Container) bool {
	return inventory.MoveToSlots(r.Instigator, from, r.FromSlot, to, r.ToSlots)
}

// Ack reports the authority's verdict on a request.
type Ack struct {
	ChangeId uint64 `json:"change_id"`
	Accepted bool   `json:"accepted"`
}

// Encode wraps req in an envelope.
func Encode(req Request) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s body: %w", req.Type(), err)
	}
	data, err := json.Marshal(Envelope{Type: req.Type(), Body: body})
	if err != nil {
		return nil, fmt.Errorf("marshalling envelope: %w", err)
	}
	return data, nil
}

// Decode unwraps an envelope into its request.
func Decode(data []byte) (Request, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshalling envelope: %w", err)
	}

	var req Request
	switch env.Type {
	case TypeMove:
		req = &MoveRequest{}
	case TypeMoveAmount:
		req = &MoveAmountRequest{}
	case TypeMoveToSlots:
		req = &MoveToSlotsRequest{}
	default:
		return nil, fmt.Errorf("unknown request type %q", env.Type)
	}

	if err := json.Unmarshal(env.Body, req); err != nil {
		return nil, fmt.Errorf("unmarshalling %s body: %w", env.Type, err)
	}
	return req, nil
}
