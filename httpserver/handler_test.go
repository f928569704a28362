package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruteri/order-target-gate/api"
	"github.com/ruteri/order-target-gate/gate"
	"github.com/ruteri/order-target-gate/interfaces"
)

var (
	testOrder = common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")

	originator = common.HexToAddress("0x1000000000000000000000000000000000000001")
	buyer      = common.HexToAddress("0x2000000000000000000000000000000000000002")
	stranger   = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := gate.NewRegistry(logger, nil)
	handler := NewHandler(registry, logger)

	mux := chi.NewRouter()
	mux.Post("/api/orders/{order_id}/target", handler.HandleRegisterTarget)
	mux.Post("/api/orders/{order_id}/fulfill", handler.HandleAuthorizeCompletion)
	mux.Post("/api/orders/{order_id}/cancel", handler.HandleCancel)
	mux.Get("/api/orders/{order_id}/target", handler.HandleTarget)
	mux.Get("/api/orders/{order_id}/fulfilled", handler.HandleFulfilled)
	mux.Get("/api/public/gate_metadata", handler.HandleMetadata)
	mux.Get("/api/public/supports/{interface_id}", handler.HandleSupportsInterface)
	return mux
}

func doRequest(t *testing.T, mux http.Handler, method, url string, caller *common.Address, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if caller != nil {
		req.Header.Set(api.SettlementCallerHeader, caller.Hex())
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func orderURL(suffix string) string {
	return fmt.Sprintf("/api/orders/%s/%s", testOrder.Hex(), suffix)
}

func TestRegisterAndFulfill_Success(t *testing.T) {
	mux := newTestRouter(t)

	w := doRequest(t, mux, http.MethodPost, orderURL("target"), &originator, interfaces.EncodeTargetWord(buyer))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var status api.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, api.StatusTargeted, status.Status)

	// Read back the target.
	w = doRequest(t, mux, http.MethodGet, orderURL("target"), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var target api.TargetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &target))
	assert.Equal(t, buyer.Hex(), target.Target)

	// Complete as the registered target.
	w = doRequest(t, mux, http.MethodPost, orderURL("fulfill"), &buyer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, mux, http.MethodGet, orderURL("fulfilled"), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fulfilled api.FulfilledResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fulfilled))
	assert.True(t, fulfilled.Fulfilled)

	// Replay is rejected with a conflict.
	w = doRequest(t, mux, http.MethodPost, orderURL("fulfill"), &buyer, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFulfill_WrongCallerForbidden(t *testing.T) {
	mux := newTestRouter(t)

	w := doRequest(t, mux, http.MethodPost, orderURL("target"), &originator, interfaces.EncodeTargetWord(buyer))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, mux, http.MethodPost, orderURL("fulfill"), &stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), stranger.Hex())
	assert.Contains(t, w.Body.String(), buyer.Hex())

	w = doRequest(t, mux, http.MethodGet, orderURL("fulfilled"), nil, nil)
	var fulfilled api.FulfilledResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fulfilled))
	assert.False(t, fulfilled.Fulfilled)
}

func TestFulfill_FallbackRegistration(t *testing.T) {
	mux := newTestRouter(t)

	// No prior registration; the fulfill body carries the target word.
	w := doRequest(t, mux, http.MethodPost, orderURL("fulfill"), &buyer, interfaces.EncodeTargetWord(buyer))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, mux, http.MethodGet, orderURL("target"), nil, nil)
	var target api.TargetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &target))
	assert.Equal(t, buyer.Hex(), target.Target)
}

func TestFulfill_UntargetedNotFound(t *testing.T) {
	mux := newTestRouter(t)

	w := doRequest(t, mux, http.MethodPost, orderURL("fulfill"), &buyer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegister_BadRequests(t *testing.T) {
	mux := newTestRouter(t)

	// Zero target address.
	w := doRequest(t, mux, http.MethodPost, orderURL("target"), &originator, make([]byte, interfaces.ExtraDataLength))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong extra data length.
	w = doRequest(t, mux, http.MethodPost, orderURL("target"), &originator, buyer.Bytes())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing caller header.
	w = doRequest(t, mux, http.MethodPost, orderURL("target"), nil, interfaces.EncodeTargetWord(buyer))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Malformed caller header.
	req := httptest.NewRequest(http.MethodPost, orderURL("target"), bytes.NewReader(interfaces.EncodeTargetWord(buyer)))
	req.Header.Set(api.SettlementCallerHeader, "not-an-address")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed order id.
	w = doRequest(t, mux, http.MethodPost, "/api/orders/zz/target", &originator, interfaces.EncodeTargetWord(buyer))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancel_Flows(t *testing.T) {
	mux := newTestRouter(t)

	// Cancel with no record.
	w := doRequest(t, mux, http.MethodPost, orderURL("cancel"), &originator, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, mux, http.MethodPost, orderURL("target"), &originator, interfaces.EncodeTargetWord(buyer))
	require.Equal(t, http.StatusOK, w.Code)

	// Non-registrant cannot cancel.
	w = doRequest(t, mux, http.MethodPost, orderURL("cancel"), &stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Registrant can.
	w = doRequest(t, mux, http.MethodPost, orderURL("cancel"), &originator, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var status api.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, api.StatusCancelled, status.Status)

	// Target resets to the zero address.
	w = doRequest(t, mux, http.MethodGet, orderURL("target"), nil, nil)
	var target api.TargetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &target))
	assert.Equal(t, (common.Address{}).Hex(), target.Target)
}

func TestMetadataAndSupports(t *testing.T) {
	mux := newTestRouter(t)

	w := doRequest(t, mux, http.MethodGet, "/api/public/gate_metadata", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var md api.MetadataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &md))
	assert.Equal(t, gate.GateName, md.Name)
	assert.Equal(t, gate.SchemaID, md.Schema)
	assert.Equal(t, gate.GateInterfaceID, md.InterfaceID)

	w = doRequest(t, mux, http.MethodGet, "/api/public/supports/"+gate.GateInterfaceID.String(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var supports api.SupportsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &supports))
	assert.True(t, supports.Supported)

	w = doRequest(t, mux, http.MethodGet, "/api/public/supports/0xdeadbeef", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &supports))
	assert.False(t, supports.Supported)

	w = doRequest(t, mux, http.MethodGet, "/api/public/supports/nothex", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
