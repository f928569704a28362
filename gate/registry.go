// Package gate implements the target authorization registry restricting
// fulfillment of an order to a single pre-designated counterparty.
package gate

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ruteri/order-target-gate/interfaces"
)

// shardCount must be a power of two; orders are sharded by the first byte
// of their identifier so unrelated orders never contend on a lock.
const shardCount = 64

type record struct {
	target     common.Address
	registrant common.Address
	fulfilled  bool
}

type shard struct {
	mu      sync.RWMutex
	records map[interfaces.OrderID]*record
}

// TargetAuthorizationRegistry holds per-order authorization state and
// enforces the single-use completion gate. All reads and mutations of one
// order's record happen under its shard lock, so two racing completion
// attempts can never both pass the fulfilled check.
//
// Re-registration of an unfulfilled order is intentionally permissive:
// any caller may overwrite the prior target and registrant. See the
// repository design notes before tightening this.
type TargetAuthorizationRegistry struct {
	shards [shardCount]*shard
	sink   interfaces.EventSink
	log    *slog.Logger
}

// NewRegistry creates an empty registry. A nil sink disables event
// notifications.
func NewRegistry(log *slog.Logger, sink interfaces.EventSink) *TargetAuthorizationRegistry {
	if sink == nil {
		sink = noopSink{}
	}
	r := &TargetAuthorizationRegistry{sink: sink, log: log}
	for i := range r.shards {
		r.shards[i] = &shard{records: make(map[interfaces.OrderID]*record)}
	}
	return r
}

func (r *TargetAuthorizationRegistry) shardFor(order interfaces.OrderID) *shard {
	return r.shards[order[0]&(shardCount-1)]
}

// RegisterTarget implements interfaces.FulfillmentGate.
func (r *TargetAuthorizationRegistry) RegisterTarget(order interfaces.OrderID, registrant common.Address, extraData []byte) error {
	target, err := interfaces.DecodeTargetWord(extraData)
	if err != nil {
		return err
	}

	s := r.shardFor(order)
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[order]; ok && rec.fulfilled {
		// A fulfilled order must remain provably fulfilled forever.
		return interfaces.ErrOrderAlreadyFulfilled
	}

	s.records[order] = &record{target: target, registrant: registrant}
	r.sink.OrderTargeted(order, registrant, target)
	return nil
}

// AuthorizeCompletion implements interfaces.FulfillmentGate.
func (r *TargetAuthorizationRegistry) AuthorizeCompletion(order interfaces.OrderID, completer common.Address, extraData []byte) error {
	s := r.shardFor(order)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[order]
	if !ok {
		// Fallback registration: establish the target from the data
		// carried with the completion attempt. The completer identity is
		// the only originator identity available on this path, so it is
		// recorded as the registrant. Nothing is persisted unless the
		// whole operation succeeds.
		target, err := interfaces.DecodeTargetWord(extraData)
		if err != nil {
			return fmt.Errorf("%w: %w", interfaces.ErrOrderNotTargeted, err)
		}
		if completer != target {
			return &interfaces.UnauthorizedFulfillerError{Attempted: completer, Expected: target}
		}
		s.records[order] = &record{target: target, registrant: completer, fulfilled: true}
		r.sink.OrderTargeted(order, completer, target)
		r.sink.OrderFulfilled(order, completer)
		return nil
	}

	if rec.fulfilled {
		return interfaces.ErrOrderAlreadyFulfilled
	}
	if completer != rec.target {
		return &interfaces.UnauthorizedFulfillerError{Attempted: completer, Expected: rec.target}
	}

	rec.fulfilled = true
	r.sink.OrderFulfilled(order, completer)
	return nil
}

// Cancel implements interfaces.FulfillmentGate.
func (r *TargetAuthorizationRegistry) Cancel(order interfaces.OrderID, caller common.Address) error {
	s := r.shardFor(order)
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[order]
	if !ok {
		return interfaces.ErrOrderNotFound
	}
	if caller != rec.registrant {
		return interfaces.ErrUnauthorizedCanceller
	}
	if rec.fulfilled {
		return interfaces.ErrOrderAlreadyFulfilled
	}

	delete(s.records, order)
	r.sink.OrderCancelled(order, caller)
	return nil
}

// Target implements interfaces.FulfillmentGate. It returns the zero
// address for unknown orders.
func (r *TargetAuthorizationRegistry) Target(order interfaces.OrderID) common.Address {
	s := r.shardFor(order)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[order]; ok {
		return rec.target
	}
	return common.Address{}
}

// Fulfilled implements interfaces.FulfillmentGate. It returns false for
// unknown orders.
func (r *TargetAuthorizationRegistry) Fulfilled(order interfaces.OrderID) bool {
	s := r.shardFor(order)
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[order]; ok {
		return rec.fulfilled
	}
	return false
}

// Snapshot returns a copy of every order record, for persistence.
func (r *TargetAuthorizationRegistry) Snapshot() []interfaces.OrderRecord {
	var out []interfaces.OrderRecord
	for _, s := range r.shards {
		s.mu.RLock()
		for order, rec := range s.records {
			out = append(out, interfaces.OrderRecord{
				Order:      order,
				Target:     rec.target,
				Registrant: rec.registrant,
				Fulfilled:  rec.fulfilled,
			})
		}
		s.mu.RUnlock()
	}
	return out
}

// Restore loads records into the registry, replacing any existing record
// for the same order. No events are emitted; restoring a snapshot is not
// a state transition.
func (r *TargetAuthorizationRegistry) Restore(records []interfaces.OrderRecord) {
	for _, snap := range records {
		s := r.shardFor(snap.Order)
		s.mu.Lock()
		s.records[snap.Order] = &record{
			target:     snap.Target,
			registrant: snap.Registrant,
			fulfilled:  snap.Fulfilled,
		}
		s.mu.Unlock()
	}
	r.log.Debug("restored order records", slog.Int("count", len(records)))
}
