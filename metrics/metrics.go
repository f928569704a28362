// Package metrics exposes Prometheus counters for gate operations and a
// standalone metrics server.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "order_target_gate"

var (
	// OrdersTargeted counts successful target registrations, fallback
	// registrations included.
	OrdersTargeted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_targeted_total",
		Help:      "Successful target registrations.",
	})

	// OrdersFulfilled counts successful completion authorizations.
	OrdersFulfilled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_fulfilled_total",
		Help:      "Successful completion authorizations.",
	})

	// OrdersCancelled counts successful cancellations.
	OrdersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_cancelled_total",
		Help:      "Successful cancellations.",
	})

	// Rejections counts failed operations by rejection reason.
	Rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rejections_total",
		Help:      "Failed gate operations by reason.",
	}, []string{"reason"})

	serviceInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "service_info",
		Help:      "Static service identity.",
	}, []string{"service"})
)

// MetricsServer serves the Prometheus scrape endpoint on its own address.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for the given service name and listen
// address.
func New(service, listenAddr string) (*MetricsServer, error) {
	serviceInfo.WithLabelValues(service).Set(1)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:    listenAddr,
			Handler: mux,
		},
	}, nil
}

// ListenAndServe blocks serving the scrape endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
