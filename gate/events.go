package gate

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ruteri/order-target-gate/interfaces"
)

// SlogSink emits gate events as structured log records.
type SlogSink struct {
	log *slog.Logger
}

// NewSlogSink creates an event sink writing to the given logger.
func NewSlogSink(log *slog.Logger) *SlogSink {
	return &SlogSink{log: log}
}

// OrderTargeted implements interfaces.EventSink.
func (s *SlogSink) OrderTargeted(order interfaces.OrderID, registrant, target common.Address) {
	s.log.Info("order targeted",
		slog.String("order", order.Hex()),
		slog.String("registrant", registrant.Hex()),
		slog.String("target", target.Hex()))
}

// OrderFulfilled implements interfaces.EventSink.
func (s *SlogSink) OrderFulfilled(order interfaces.OrderID, fulfiller common.Address) {
	s.log.Info("order fulfilled",
		slog.String("order", order.Hex()),
		slog.String("fulfiller", fulfiller.Hex()))
}

// OrderCancelled implements interfaces.EventSink.
func (s *SlogSink) OrderCancelled(order interfaces.OrderID, registrant common.Address) {
	s.log.Info("order cancelled",
		slog.String("order", order.Hex()),
		slog.String("registrant", registrant.Hex()))
}

type noopSink struct{}

func (noopSink) OrderTargeted(interfaces.OrderID, common.Address, common.Address) {}
func (noopSink) OrderFulfilled(interfaces.OrderID, common.Address)                {}
func (noopSink) OrderCancelled(interfaces.OrderID, common.Address)                {}
