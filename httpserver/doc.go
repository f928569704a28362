// Package httpserver adapts the target authorization gate to an HTTP
// call convention for the settlement orchestrator.
//
// The façade is deliberately thin: the order identifier lives in the URL,
// the caller identity in the X-Settlement-Caller header (trusted input
// from the platform in front of the service), and extra data in the raw
// request body. Gate errors map onto HTTP statuses without translation
// of their text.
//
// Endpoints:
//
//	POST /api/orders/{order_id}/target     register the intended fulfiller
//	POST /api/orders/{order_id}/fulfill    gate a completion attempt
//	POST /api/orders/{order_id}/cancel     clear an unfulfilled registration
//	GET  /api/orders/{order_id}/target     read the registered target
//	GET  /api/orders/{order_id}/fulfilled  read the fulfillment flag
//	GET  /api/public/gate_metadata         gate descriptor for discovery
//	GET  /api/public/supports/{id}         capability probe
//
// The server additionally provides /livez, /readyz, /drain and /undrain
// for orchestration, an optional pprof mount, and a standalone metrics
// listener.
package httpserver
