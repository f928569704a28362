package clients

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/order-target-gate/gate"
	"github.com/ruteri/order-target-gate/httpserver"
	"github.com/ruteri/order-target-gate/interfaces"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := httpserver.NewHandler(gate.NewRegistry(logger, nil), logger)

	mux := chi.NewRouter()
	mux.Post("/api/orders/{order_id}/target", handler.HandleRegisterTarget)
	mux.Post("/api/orders/{order_id}/fulfill", handler.HandleAuthorizeCompletion)
	mux.Post("/api/orders/{order_id}/cancel", handler.HandleCancel)
	mux.Get("/api/orders/{order_id}/target", handler.HandleTarget)
	mux.Get("/api/orders/{order_id}/fulfilled", handler.HandleFulfilled)
	mux.Get("/api/public/gate_metadata", handler.HandleMetadata)
	mux.Get("/api/public/supports/{interface_id}", handler.HandleSupportsInterface)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGateClient_EndToEnd(t *testing.T) {
	srv := newTestServer(t)

	order := common.HexToHash("0x4242424242424242424242424242424242424242424242424242424242424242")
	originator := common.HexToAddress("0x1000000000000000000000000000000000000001")
	buyer := common.HexToAddress("0x2000000000000000000000000000000000000002")

	originatorClient := &GateClient{ServerAddr: srv.URL, Caller: originator}
	buyerClient := &GateClient{ServerAddr: srv.URL, Caller: buyer}

	require.NoError(t, originatorClient.RegisterTarget(order, interfaces.EncodeTargetWord(buyer)))

	target, err := buyerClient.Target(order)
	require.NoError(t, err)
	assert.Equal(t, buyer, target)

	// Completion by the wrong caller surfaces the server error.
	err = originatorClient.AuthorizeCompletion(order, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	require.NoError(t, buyerClient.AuthorizeCompletion(order, nil))

	fulfilled, err := buyerClient.Fulfilled(order)
	require.NoError(t, err)
	assert.True(t, fulfilled)

	// Replay is an error.
	require.Error(t, buyerClient.AuthorizeCompletion(order, nil))
}

func TestGateClient_Discovery(t *testing.T) {
	srv := newTestServer(t)
	client := &GateClient{ServerAddr: srv.URL}

	md, err := client.Metadata()
	require.NoError(t, err)
	assert.Equal(t, gate.GateName, md.Name)
	assert.Equal(t, gate.SchemaID, md.Schema)

	supported, err := client.SupportsInterface(md.InterfaceID)
	require.NoError(t, err)
	assert.True(t, supported)

	supported, err = client.SupportsInterface(interfaces.InterfaceID{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)
	assert.False(t, supported)
}
