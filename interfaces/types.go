// Package interfaces defines the core types and contracts of the order
// target authorization gate. It provides the boundary between the gate
// implementation and its callers without implementation details.
package interfaces

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// OrderID is the opaque 32-byte identifier of an order. The settlement
// orchestrator is responsible for its uniqueness; the gate never derives
// it from order contents.
type OrderID = common.Hash

// ExtraDataLength is the exact length of the encoded target word carried
// alongside registration and completion calls: a 20-byte address
// right-aligned in a 32-byte word with zero padding.
const ExtraDataLength = 32

// Errors surfaced by the gate. Every failure is checked before any
// mutation, so a failed operation is a no-op.
var (
	// ErrMalformedExtraData indicates extra data that is not the canonical
	// 32-byte encoding of a single address.
	ErrMalformedExtraData = errors.New("extra data is not a canonical 32-byte address word")

	// ErrInvalidTargetAddress indicates a well-formed word decoding to the
	// zero address, which can never be a fulfiller.
	ErrInvalidTargetAddress = errors.New("target address must not be zero")

	// ErrOrderNotTargeted indicates a completion attempt on an order with
	// no registered target and no usable fallback data.
	ErrOrderNotTargeted = errors.New("order has no registered target")

	// ErrOrderAlreadyFulfilled indicates an operation on a terminal order.
	ErrOrderAlreadyFulfilled = errors.New("order already fulfilled")

	// ErrOrderNotFound indicates a cancellation of an order with no record.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnauthorizedCanceller indicates a cancellation by an identity
	// other than the original registrant.
	ErrUnauthorizedCanceller = errors.New("caller is not the registrant")

	// ErrUnauthorizedFulfiller is the sentinel matched by errors.Is for
	// UnauthorizedFulfillerError values.
	ErrUnauthorizedFulfiller = errors.New("caller is not the registered target")
)

// UnauthorizedFulfillerError reports a completion attempt by an identity
// other than the registered target, carrying both identities.
type UnauthorizedFulfillerError struct {
	Attempted common.Address
	Expected  common.Address
}

// Error implements the error interface.
func (e *UnauthorizedFulfillerError) Error() string {
	return fmt.Sprintf("caller %s is not the registered target %s", e.Attempted.Hex(), e.Expected.Hex())
}

// Is makes errors.Is(err, ErrUnauthorizedFulfiller) match.
func (e *UnauthorizedFulfillerError) Is(target error) bool {
	return target == ErrUnauthorizedFulfiller
}

// DecodeTargetWord decodes the canonical 32-byte target word into an
// address. The address occupies the low 20 bytes; the 12 padding bytes
// must be zero so every address has exactly one encoding. A decoded zero
// address is rejected separately since it can never fulfill an order.
func DecodeTargetWord(extraData []byte) (common.Address, error) {
	if len(extraData) != ExtraDataLength {
		return common.Address{}, fmt.Errorf("%w: got %d bytes", ErrMalformedExtraData, len(extraData))
	}
	for _, b := range extraData[:ExtraDataLength-common.AddressLength] {
		if b != 0 {
			return common.Address{}, fmt.Errorf("%w: non-zero padding", ErrMalformedExtraData)
		}
	}

	addr := common.BytesToAddress(extraData[ExtraDataLength-common.AddressLength:])
	if addr == (common.Address{}) {
		return common.Address{}, ErrInvalidTargetAddress
	}
	return addr, nil
}

// EncodeTargetWord encodes an address into the canonical 32-byte word.
func EncodeTargetWord(addr common.Address) []byte {
	word := make([]byte, ExtraDataLength)
	copy(word[ExtraDataLength-common.AddressLength:], addr.Bytes())
	return word
}

// InterfaceID is a 4-byte capability identifier, computed the way
// function selectors are: the leading bytes of the keccak-256 hash of a
// canonical signature, with multi-function interfaces XOR-folded.
type InterfaceID [4]byte

// String returns the 0x-prefixed hex form of the interface ID.
func (id InterfaceID) String() string {
	return hexutil.Encode(id[:])
}

// MarshalText encodes the interface ID as 0x-prefixed hex.
func (id InterfaceID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a 0x-prefixed hex interface ID.
func (id *InterfaceID) UnmarshalText(text []byte) error {
	raw, err := hexutil.Decode(string(text))
	if err != nil {
		return err
	}
	if len(raw) != len(id) {
		return fmt.Errorf("invalid interface id length: %d", len(raw))
	}
	copy(id[:], raw)
	return nil
}

// GateMetadata describes a gate to orchestrators selecting compatible
// implementations: a human-readable name and a versioned schema
// identifier for the extra data encoding.
type GateMetadata struct {
	Name        string      `json:"name"`
	Schema      string      `json:"schema"`
	InterfaceID InterfaceID `json:"interface_id"`
}

// OrderRecord is the snapshot form of one order's authorization state,
// used for persistence and introspection.
type OrderRecord struct {
	Order      OrderID        `json:"order"`
	Target     common.Address `json:"target"`
	Registrant common.Address `json:"registrant"`
	Fulfilled  bool           `json:"fulfilled"`
}
