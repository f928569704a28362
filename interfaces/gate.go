package interfaces

import "github.com/ethereum/go-ethereum/common"

// FulfillmentGate is the contract exposed to the settlement orchestrator.
//
// Caller identities (registrant, completer, canceller) are trusted input:
// the platform beneath the gate authenticates them, and the gate never
// re-derives them from payloads.
type FulfillmentGate interface {
	// RegisterTarget records the sole party permitted to complete the
	// order. Extra data must be the canonical 32-byte word encoding one
	// non-zero address. Re-registering an unfulfilled order overwrites
	// the prior registration.
	RegisterTarget(order OrderID, registrant common.Address, extraData []byte) error

	// AuthorizeCompletion permits completion of the order if and only if
	// the completer matches the registered target, at most once. If no
	// target is registered, extra data carrying a valid target word
	// registers it in the same operation (fallback registration).
	AuthorizeCompletion(order OrderID, completer common.Address, extraData []byte) error

	// Cancel clears an unfulfilled registration. Only the registrant may
	// cancel.
	Cancel(order OrderID, caller common.Address) error

	// Target returns the registered target, or the zero address if unset.
	Target(order OrderID) common.Address

	// Fulfilled reports whether the order has been completed.
	Fulfilled(order OrderID) bool

	// SupportsInterface reports whether the gate implements the
	// capability identified by id.
	SupportsInterface(id InterfaceID) bool

	// Metadata returns the gate's static descriptor.
	Metadata() GateMetadata
}

// EventSink receives gate notifications. Sinks are invoked synchronously
// after the mutation they describe, in the same total order as the state
// transitions; implementations must be fast and must not call back into
// the gate.
type EventSink interface {
	OrderTargeted(order OrderID, registrant, target common.Address)
	OrderFulfilled(order OrderID, fulfiller common.Address)
	OrderCancelled(order OrderID, registrant common.Address)
}
