// Package api holds the HTTP server configuration and the wire types
// shared between the gate server and its clients.
package api

import "github.com/ruteri/order-target-gate/interfaces"

// SettlementCallerHeader carries the caller identity as a hex address.
// The identity is authenticated by the platform in front of this service;
// the gate trusts it as-is and never derives it from request payloads.
const SettlementCallerHeader = "X-Settlement-Caller"

// StatusResponse acknowledges a successful mutating operation.
type StatusResponse struct {
	Status string `json:"status"`
}

// Mutating operation acknowledgements.
const (
	StatusTargeted  = "targeted"
	StatusFulfilled = "fulfilled"
	StatusCancelled = "cancelled"
)

// TargetResponse carries the registered target for an order; the zero
// address means no target is registered.
type TargetResponse struct {
	Target string `json:"target"`
}

// FulfilledResponse carries the fulfillment flag for an order.
type FulfilledResponse struct {
	Fulfilled bool `json:"fulfilled"`
}

// MetadataResponse is the gate's static descriptor.
type MetadataResponse = interfaces.GateMetadata

// SupportsResponse answers a capability probe.
type SupportsResponse struct {
	InterfaceID interfaces.InterfaceID `json:"interface_id"`
	Supported   bool                   `json:"supported"`
}
