package protocol

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/pixil98/go-inventory/internal/inventory"
)

// ErrPredictedFailure is returned when the local replica already refuses a transfer.
var ErrPredictedFailure = errors.New("transfer refused locally")

// Replica is a requester-side copy of the containers it may touch.
type Replica interface {
	Container(id string) (*inventory.Container, error)
}

// Predictor issues transfer requests on behalf of one instigator. With a
// replica it applies each transfer locally straight away and reconciles the
// replica once the authority answers.
type Predictor struct {
	instigator string
	bus        Bus
	replica    Replica

	mu      sync.Mutex
	nextId  uint64
	pending []*pendingChange
}

type pendingChange struct {
	req      Request
	from     *inventory.Container
	to       *inventory.Container
	fromSnap inventory.Snapshot
	toSnap   inventory.Snapshot
	result   chan bool
}

type PredictorOpt func(*Predictor)

// WithReplica makes the predictor apply transfers to r before the authority answers.
func WithReplica(r Replica) PredictorOpt {
	return func(p *Predictor) {
		p.replica = r
	}
}

func NewPredictor(instigator string, bus Bus, opts ...PredictorOpt) *Predictor {
	p := &Predictor{
		instigator: instigator,
		bus:        bus,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Listen subscribes to the instigator's acks. The returned func stops listening.
func (p *Predictor) Listen() (func(), error) {
	unsub, err := p.bus.Subscribe(AckSubject(p.instigator), func(data []byte) {
		var ack Ack
		if err := json.Unmarshal(data, &ack); err != nil {
			slog.Warn("dropping malformed ack", "instigator", p.instigator, "error", err)
			return
		}
		p.HandleAck(ack)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to acks: %w", err)
	}
	return unsub, nil
}

// Pending is a request waiting for the authority.
type Pending struct {
	ChangeId uint64
	result   <-chan bool
}

// Wait blocks until the authority answered and reports whether it accepted.
func (p *Pending) Wait(ctx context.Context) (bool, error) {
	select {
	case ok := <-p.result:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (p *Predictor) Move(from string, fromSlot int, to string, toSlot int) (*Pending, error) {
	return p.submit(&MoveRequest{
		Transfer: p.transfer(from, fromSlot, to),
		ToSlot:   toSlot,
	})
}

func (p *Predictor) MoveAmount(from string, fromSlot int, to string, toSlot int, amount int) (*Pending, error) {
	return p.submit(&MoveAmountRequest{
		Transfer: p.transfer(from, fromSlot, to),
		ToSlot:   toSlot,
		Amount:   amount,
	})
}

func (p *Predictor) MoveToSlots(from string, fromSlot int, to string, toSlots []int) (*Pending, error) {
	return p.submit(&MoveToSlotsRequest{
		Transfer: p.transfer(from, fromSlot, to),
		ToSlots:  slices.Clone(toSlots),
	})
}

func (p *Predictor) transfer(from string, fromSlot int, to string) Transfer {
	return Transfer{
		Instigator: p.instigator,
		From:       from,
		FromSlot:   fromSlot,
		To:         to,
	}
}

// PendingCount returns the number of requests still waiting for an ack.
func (p *Predictor) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *Predictor) submit(req Request) (*Pending, error) {
	p.mu.Lock()
	p.nextId++
	req.transfer().ChangeId = p.nextId

	pc := &pendingChange{req: req, result: make(chan bool, 1)}
	if p.replica != nil {
		if err := p.predict(pc); err != nil {
			p.mu.Unlock()
			return nil, err
		}
	}
	p.pending = append(p.pending, pc)
	p.mu.Unlock()

	// Published without the lock so a synchronous bus can deliver the ack inline.
	data, err := Encode(req)
	if err == nil {
		err = p.bus.Publish(RequestSubject, data)
	}
	if err != nil {
		p.HandleAck(Ack{ChangeId: req.transfer().ChangeId, Accepted: false})
		return nil, fmt.Errorf("publishing request: %w", err)
	}

	return &Pending{ChangeId: req.transfer().ChangeId, result: pc.result}, nil
}

// predict snapshots the touched containers and applies the request to them.
func (p *Predictor) predict(pc *pendingChange) error {
	t := pc.req.transfer()

	from, err := p.replica.Container(t.From)
	if err != nil {
		return err
	}
	to, err := p.replica.Container(t.To)
	if err != nil {
		return err
	}

	pc.from, pc.to = from, to
	pc.fromSnap = from.Snapshot()
	pc.toSnap = to.Snapshot()

	if !pc.req.apply(from, to) {
		return ErrPredictedFailure
	}
	return nil
}

// rewind restores the containers to how they were before pc was applied.
func (pc *pendingChange) rewind() {
	if pc.from == nil {
		return
	}
	pc.to.Restore(pc.toSnap)
	if pc.from != pc.to {
		pc.from.Restore(pc.fromSnap)
	}
}

// Forget stops tracking a change whose answer is no longer awaited. A late
// ack for it is ignored and whatever was predicted stays in the replica.
func (p *Predictor) Forget(changeId uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := slices.IndexFunc(p.pending, func(pc *pendingChange) bool {
		return pc.req.transfer().ChangeId == changeId
	})
	if idx < 0 {
		return
	}
	forgotten := p.pending[idx]
	p.pending = slices.Delete(p.pending, idx, idx+1)
	forgotten.result <- false
}

// HandleAck settles the pending change the ack refers to. Acks for unknown
// changes are ignored.
func (p *Predictor) HandleAck(ack Ack) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := slices.IndexFunc(p.pending, func(pc *pendingChange) bool {
		return pc.req.transfer().ChangeId == ack.ChangeId
	})
	if idx < 0 {
		slog.Debug("ignoring ack for unknown change", "instigator", p.instigator, "change_id", ack.ChangeId)
		return
	}

	settled := p.pending[idx]
	if ack.Accepted {
		p.pending = slices.Delete(p.pending, idx, idx+1)
		settled.result <- true
		return
	}

	// Unwind every change made on top of the rejected one, newest first, then
	// replay the later ones against the restored state.
	later := slices.Clone(p.pending[idx+1:])
	for i := len(p.pending) - 1; i >= idx; i-- {
		p.pending[i].rewind()
	}
	p.pending = p.pending[:idx]
	settled.result <- false

	for _, pc := range later {
		if pc.from == nil {
			p.pending = append(p.pending, pc)
			continue
		}
		if err := p.predict(pc); err != nil {
			slog.Debug("replayed change no longer applies", "instigator", p.instigator, "change_id", pc.req.transfer().ChangeId)
			pc.from, pc.to = nil, nil
		}
		p.pending = append(p.pending, pc)
	}
}
