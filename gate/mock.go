package gate

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/ruteri/order-target-gate/interfaces"
)

// MockGate mocks the FulfillmentGate interface
type MockGate struct {
	mock.Mock
}

// RegisterTarget mocks the RegisterTarget method
func (m *MockGate) RegisterTarget(order interfaces.OrderID, registrant common.Address, extraData []byte) error {
	args := m.Called(order, registrant, extraData)
	return args.Error(0)
}

// AuthorizeCompletion mocks the AuthorizeCompletion method
func (m *MockGate) AuthorizeCompletion(order interfaces.OrderID, completer common.Address, extraData []byte) error {
	args := m.Called(order, completer, extraData)
	return args.Error(0)
}

// Cancel mocks the Cancel method
func (m *MockGate) Cancel(order interfaces.OrderID, caller common.Address) error {
	args := m.Called(order, caller)
	return args.Error(0)
}

// Target mocks the Target method
func (m *MockGate) Target(order interfaces.OrderID) common.Address {
	args := m.Called(order)
	return args.Get(0).(common.Address)
}

// Fulfilled mocks the Fulfilled method
func (m *MockGate) Fulfilled(order interfaces.OrderID) bool {
	args := m.Called(order)
	return args.Bool(0)
}

// SupportsInterface mocks the SupportsInterface method
func (m *MockGate) SupportsInterface(id interfaces.InterfaceID) bool {
	args := m.Called(id)
	return args.Bool(0)
}

// Metadata mocks the Metadata method
func (m *MockGate) Metadata() interfaces.GateMetadata {
	args := m.Called()
	return args.Get(0).(interfaces.GateMetadata)
}

// MockSink mocks the EventSink interface
type MockSink struct {
	mock.Mock
}

// OrderTargeted mocks the OrderTargeted method
func (m *MockSink) OrderTargeted(order interfaces.OrderID, registrant, target common.Address) {
	m.Called(order, registrant, target)
}

// OrderFulfilled mocks the OrderFulfilled method
func (m *MockSink) OrderFulfilled(order interfaces.OrderID, fulfiller common.Address) {
	m.Called(order, fulfiller)
}

// OrderCancelled mocks the OrderCancelled method
func (m *MockSink) OrderCancelled(order interfaces.OrderID, registrant common.Address) {
	m.Called(order, registrant)
}
