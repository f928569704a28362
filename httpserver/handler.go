package httpserver

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ruteri/order-target-gate/api"
	"github.com/ruteri/order-target-gate/interfaces"
	"github.com/ruteri/order-target-gate/metrics"
)

// maxBodySize is the maximum allowed request body size. Extra data is a
// single 32-byte word; anything near the limit is already garbage.
const maxBodySize = 1024

// Handler processes HTTP requests for the target authorization gate.
// It is a thin adapter: order identifiers and caller identities come from
// the URL and the trusted caller header, extra data is the raw request
// body, and every gate error is surfaced to the caller unmodified.
type Handler struct {
	gate interfaces.FulfillmentGate
	log  *slog.Logger
}

// NewHandler creates a new HTTP request handler backed by the given gate.
func NewHandler(gate interfaces.FulfillmentGate, log *slog.Logger) *Handler {
	return &Handler{gate: gate, log: log}
}

// HandleRegisterTarget records the intended fulfiller for an order.
//
// URL format: POST /api/orders/{order_id}/target
// Required header: X-Settlement-Caller (registrant, hex address)
// Request body: raw 32-byte extra data word
func (h *Handler) HandleRegisterTarget(w http.ResponseWriter, r *http.Request) {
	order, caller, ok := h.parseIdentity(w, r)
	if !ok {
		return
	}

	extraData, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if err := h.gate.RegisterTarget(order, caller, extraData); err != nil {
		h.writeGateError(w, r, err)
		return
	}

	metrics.OrdersTargeted.Inc()
	writeJSON(w, api.StatusResponse{Status: api.StatusTargeted})
}

// HandleAuthorizeCompletion gates a fulfillment attempt.
//
// URL format: POST /api/orders/{order_id}/fulfill
// Required header: X-Settlement-Caller (completer, hex address)
// Request body: optional raw extra data word for fallback registration
func (h *Handler) HandleAuthorizeCompletion(w http.ResponseWriter, r *http.Request) {
	order, caller, ok := h.parseIdentity(w, r)
	if !ok {
		return
	}

	extraData, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if err := h.gate.AuthorizeCompletion(order, caller, extraData); err != nil {
		h.writeGateError(w, r, err)
		return
	}

	metrics.OrdersFulfilled.Inc()
	writeJSON(w, api.StatusResponse{Status: api.StatusFulfilled})
}

// HandleCancel clears an unfulfilled registration.
//
// URL format: POST /api/orders/{order_id}/cancel
// Required header: X-Settlement-Caller (registrant, hex address)
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	order, caller, ok := h.parseIdentity(w, r)
	if !ok {
		return
	}

	if err := h.gate.Cancel(order, caller); err != nil {
		h.writeGateError(w, r, err)
		return
	}

	metrics.OrdersCancelled.Inc()
	writeJSON(w, api.StatusResponse{Status: api.StatusCancelled})
}

// HandleTarget returns the registered target for an order.
//
// URL format: GET /api/orders/{order_id}/target
func (h *Handler) HandleTarget(w http.ResponseWriter, r *http.Request) {
	order, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	writeJSON(w, api.TargetResponse{Target: h.gate.Target(order).Hex()})
}

// HandleFulfilled returns the fulfillment flag for an order.
//
// URL format: GET /api/orders/{order_id}/fulfilled
func (h *Handler) HandleFulfilled(w http.ResponseWriter, r *http.Request) {
	order, ok := h.parseOrderID(w, r)
	if !ok {
		return
	}

	writeJSON(w, api.FulfilledResponse{Fulfilled: h.gate.Fulfilled(order)})
}

// HandleMetadata returns the gate's static descriptor so orchestrators
// can select compatible gates.
//
// URL format: GET /api/public/gate_metadata
func (h *Handler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.MetadataResponse(h.gate.Metadata()))
}

// HandleSupportsInterface answers a capability probe.
//
// URL format: GET /api/public/supports/{interface_id}
func (h *Handler) HandleSupportsInterface(w http.ResponseWriter, r *http.Request) {
	var id interfaces.InterfaceID
	raw := r.PathValue("interface_id")
	if !strings.HasPrefix(raw, "0x") {
		raw = "0x" + raw
	}
	if err := id.UnmarshalText([]byte(raw)); err != nil {
		http.Error(w, "Invalid interface id format", http.StatusBadRequest)
		return
	}

	writeJSON(w, api.SupportsResponse{InterfaceID: id, Supported: h.gate.SupportsInterface(id)})
}

// parseOrderID extracts the 32-byte order identifier from the URL path.
func (h *Handler) parseOrderID(w http.ResponseWriter, r *http.Request) (interfaces.OrderID, bool) {
	orderHex := strings.TrimPrefix(r.PathValue("order_id"), "0x")
	orderBytes, err := hex.DecodeString(orderHex)
	if err != nil || len(orderBytes) != common.HashLength {
		h.log.Debug("Invalid order id", "err", err, slog.String("order", orderHex))
		http.Error(w, "Invalid order id format", http.StatusBadRequest)
		return interfaces.OrderID{}, false
	}
	return common.BytesToHash(orderBytes), true
}

// parseIdentity extracts the order identifier and the trusted caller
// identity for mutating operations.
func (h *Handler) parseIdentity(w http.ResponseWriter, r *http.Request) (interfaces.OrderID, common.Address, bool) {
	order, ok := h.parseOrderID(w, r)
	if !ok {
		return interfaces.OrderID{}, common.Address{}, false
	}

	callerHex := r.Header.Get(api.SettlementCallerHeader)
	if callerHex == "" {
		http.Error(w, "Missing caller header", http.StatusBadRequest)
		return interfaces.OrderID{}, common.Address{}, false
	}
	if !common.IsHexAddress(callerHex) {
		h.log.Debug("Invalid caller address", slog.String("caller", callerHex))
		http.Error(w, "Invalid caller address format", http.StatusBadRequest)
		return interfaces.OrderID{}, common.Address{}, false
	}

	return order, common.HexToAddress(callerHex), true
}

// writeGateError maps a gate error onto an HTTP status and counts the
// rejection. Error text is passed through; nothing is swallowed.
func (h *Handler) writeGateError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var reason string

	switch {
	// A failed fallback wraps both ErrOrderNotTargeted and the decode
	// error, so the not-targeted case must be matched first.
	case errors.Is(err, interfaces.ErrOrderNotTargeted):
		status, reason = http.StatusNotFound, "not_targeted"
	case errors.Is(err, interfaces.ErrMalformedExtraData):
		status, reason = http.StatusBadRequest, "malformed_extra_data"
	case errors.Is(err, interfaces.ErrInvalidTargetAddress):
		status, reason = http.StatusBadRequest, "invalid_target"
	case errors.Is(err, interfaces.ErrOrderNotFound):
		status, reason = http.StatusNotFound, "not_found"
	case errors.Is(err, interfaces.ErrOrderAlreadyFulfilled):
		status, reason = http.StatusConflict, "already_fulfilled"
	case errors.Is(err, interfaces.ErrUnauthorizedFulfiller):
		status, reason = http.StatusForbidden, "unauthorized_fulfiller"
	case errors.Is(err, interfaces.ErrUnauthorizedCanceller):
		status, reason = http.StatusForbidden, "unauthorized_canceller"
	default:
		status, reason = http.StatusInternalServerError, "internal"
	}

	h.log.Info("Gate operation rejected", "err", err,
		slog.String("path", r.URL.Path),
		slog.Int("status", status))
	metrics.Rejections.WithLabelValues(reason).Inc()
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
