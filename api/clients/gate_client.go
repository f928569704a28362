// Package clients provides HTTP clients for the gate server API.
package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/ruteri/order-target-gate/api"
	"github.com/ruteri/order-target-gate/interfaces"
)

// GateCaller is the client-side view of the gate API, bound to a single
// caller identity.
type GateCaller interface {
	RegisterTarget(order interfaces.OrderID, extraData []byte) error
	AuthorizeCompletion(order interfaces.OrderID, extraData []byte) error
	Cancel(order interfaces.OrderID) error
	Target(order interfaces.OrderID) (common.Address, error)
	Fulfilled(order interfaces.OrderID) (bool, error)
	Metadata() (*api.MetadataResponse, error)
	SupportsInterface(id interfaces.InterfaceID) (bool, error)
}

// GateClient implements GateCaller over HTTP.
type GateClient struct {
	// ServerAddr is the base URL of the gate server.
	ServerAddr string

	// Caller is the identity sent in the caller header on mutating
	// requests. In production the fronting platform overwrites it; setting
	// it here serves direct deployments and tests.
	Caller common.Address

	// HTTPClient overrides http.DefaultClient when set.
	HTTPClient *http.Client
}

func (c *GateClient) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *GateClient) post(path string, body []byte) error {
	url := c.ServerAddr + path
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(api.SettlementCallerHeader, c.Caller.Hex())

	resp, err := c.client().Do(req)
	if err != nil {
		return fmt.Errorf("could not request gate endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("gate endpoint returned non-200 response: %d", resp.StatusCode)
		}
		return fmt.Errorf("gate endpoint returned error %d: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}

func (c *GateClient) get(path string, out any) error {
	resp, err := c.client().Get(c.ServerAddr + path)
	if err != nil {
		return fmt.Errorf("could not request gate endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gate endpoint returned error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse gate response: %w", err)
	}
	return nil
}

// RegisterTarget records the intended fulfiller for an order.
func (c *GateClient) RegisterTarget(order interfaces.OrderID, extraData []byte) error {
	return c.post(fmt.Sprintf("/api/orders/%s/target", order.Hex()), extraData)
}

// AuthorizeCompletion submits a completion attempt for the order.
func (c *GateClient) AuthorizeCompletion(order interfaces.OrderID, extraData []byte) error {
	return c.post(fmt.Sprintf("/api/orders/%s/fulfill", order.Hex()), extraData)
}

// Cancel clears an unfulfilled registration.
func (c *GateClient) Cancel(order interfaces.OrderID) error {
	return c.post(fmt.Sprintf("/api/orders/%s/cancel", order.Hex()), nil)
}

// Target returns the registered target, or the zero address if unset.
func (c *GateClient) Target(order interfaces.OrderID) (common.Address, error) {
	var resp api.TargetResponse
	if err := c.get(fmt.Sprintf("/api/orders/%s/target", order.Hex()), &resp); err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(resp.Target) {
		return common.Address{}, fmt.Errorf("gate returned invalid target address: %q", resp.Target)
	}
	return common.HexToAddress(resp.Target), nil
}

// Fulfilled reports whether the order has been completed.
func (c *GateClient) Fulfilled(order interfaces.OrderID) (bool, error) {
	var resp api.FulfilledResponse
	if err := c.get(fmt.Sprintf("/api/orders/%s/fulfilled", order.Hex()), &resp); err != nil {
		return false, err
	}
	return resp.Fulfilled, nil
}

// Metadata returns the gate's static descriptor.
func (c *GateClient) Metadata() (*api.MetadataResponse, error) {
	var resp api.MetadataResponse
	if err := c.get("/api/public/gate_metadata", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SupportsInterface probes the gate for a capability.
func (c *GateClient) SupportsInterface(id interfaces.InterfaceID) (bool, error) {
	var resp api.SupportsResponse
	if err := c.get("/api/public/supports/"+id.String(), &resp); err != nil {
		return false, err
	}
	return resp.Supported, nil
}

// MockGateCaller implements a mock GateCaller for testing.
type MockGateCaller struct {
	mock.Mock
}

// RegisterTarget implements the GateCaller interface for testing.
func (m *MockGateCaller) RegisterTarget(order interfaces.OrderID, extraData []byte) error {
	args := m.Called(order, extraData)
	return args.Error(0)
}

// AuthorizeCompletion implements the GateCaller interface for testing.
func (m *MockGateCaller) AuthorizeCompletion(order interfaces.OrderID, extraData []byte) error {
	args := m.Called(order, extraData)
	return args.Error(0)
}

// Cancel implements the GateCaller interface for testing.
func (m *MockGateCaller) Cancel(order interfaces.OrderID) error {
	args := m.Called(order)
	return args.Error(0)
}

// Target implements the GateCaller interface for testing.
func (m *MockGateCaller) Target(order interfaces.OrderID) (common.Address, error) {
	args := m.Called(order)
	return args.Get(0).(common.Address), args.Error(1)
}

// Fulfilled implements the GateCaller interface for testing.
func (m *MockGateCaller) Fulfilled(order interfaces.OrderID) (bool, error) {
	args := m.Called(order)
	return args.Bool(0), args.Error(1)
}

// Metadata implements the GateCaller interface for testing.
func (m *MockGateCaller) Metadata() (*api.MetadataResponse, error) {
	args := m.Called()
	return args.Get(0).(*api.MetadataResponse), args.Error(1)
}

// SupportsInterface implements the GateCaller interface for testing.
func (m *MockGateCaller) SupportsInterface(id interfaces.InterfaceID) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}
