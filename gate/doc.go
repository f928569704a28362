// Package gate implements the order target authorization registry: the
// component that restricts fulfillment of a tradable order to a single
// pre-designated counterparty, exactly once.
//
// The registry keeps three pieces of state per order identifier: the
// target address permitted to complete the order, the registrant that
// recorded it, and a monotonic fulfilled flag. Each order moves through
// a small state machine:
//
//	UNREGISTERED -> REGISTERED -> FULFILLED (terminal)
//	REGISTERED   -> UNREGISTERED (cancellation by the registrant)
//
// The fallback registration path inside AuthorizeCompletion lets an
// order whose registration step was skipped be authorized purely from
// the data carried with the completion attempt; it passes through
// REGISTERED and FULFILLED within one atomic operation.
//
// Key properties:
//
//   - Authorization succeeds for at most one completer, at most once,
//     per order identifier.
//   - Every failure is checked before any mutation; failed operations
//     are no-ops.
//   - A fulfilled record is permanent; neither cancellation nor
//     re-registration can touch it.
//   - All operations on one order are applied under a per-shard lock,
//     giving the single global sequential ordering the design requires.
//
// Caller identities are trusted input from the layer beneath the gate.
// The registry performs no signature verification and never derives
// identities from order contents.
//
// # Usage Example
//
//	registry := gate.NewRegistry(logger, gate.NewSlogSink(logger))
//
//	// Order creation: record the intended fulfiller.
//	err := registry.RegisterTarget(orderID, originator, interfaces.EncodeTargetWord(buyer))
//
//	// Completion time: gate the fulfillment attempt.
//	err = registry.AuthorizeCompletion(orderID, buyer, nil)
//
//	// Discovery: advertise the implemented contract.
//	ok := registry.SupportsInterface(gate.GateInterfaceID)
package gate
