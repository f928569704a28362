package gate

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ruteri/order-target-gate/interfaces"
)

// GateName is the human-readable name advertised in gate metadata.
const GateName = "TargetAuthorizationRegistry"

// SchemaID is the versioned identifier of the extra data encoding: a
// single address right-aligned in a 32-byte word.
const SchemaID = "order-target-extra/v1"

// Selector computes a 4-byte identifier from a canonical function
// signature, keccak-256 truncated to its leading bytes.
func Selector(signature string) interfaces.InterfaceID {
	var id interfaces.InterfaceID
	copy(id[:], crypto.Keccak256([]byte(signature))[:4])
	return id
}

var (
	// BaseInterfaceID identifies the capability-advertisement query
	// itself, so discovery can probe any gate uniformly.
	BaseInterfaceID = Selector("supportsInterface(bytes4)")

	// GateInterfaceID identifies the authorization-gate contract: the
	// XOR fold of the selectors of its operations and queries.
	GateInterfaceID = xorIDs(
		Selector("registerTarget(bytes32,address,bytes)"),
		Selector("authorizeCompletion(bytes32,address,bytes)"),
		Selector("cancel(bytes32,address)"),
		Selector("target(bytes32)"),
		Selector("fulfilled(bytes32)"),
	)
)

func xorIDs(ids ...interfaces.InterfaceID) interfaces.InterfaceID {
	var out interfaces.InterfaceID
	for _, id := range ids {
		for i := range out {
			out[i] ^= id[i]
		}
	}
	return out
}

// SupportsInterface implements interfaces.FulfillmentGate.
func (r *TargetAuthorizationRegistry) SupportsInterface(id interfaces.InterfaceID) bool {
	return id == BaseInterfaceID || id == GateInterfaceID
}

// Metadata implements interfaces.FulfillmentGate.
func (r *TargetAuthorizationRegistry) Metadata() interfaces.GateMetadata {
	return interfaces.GateMetadata{
		Name:        GateName,
		Schema:      SchemaID,
		InterfaceID: GateInterfaceID,
	}
}
