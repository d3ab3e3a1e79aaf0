package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the shop collectors.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// ShopMetrics records cart and order activity.
type ShopMetrics struct {
	cartMutations     *prometheus.CounterVec
	ordersPlaced      prometheus.Counter
	stockConflicts    prometheus.Counter
	placementDuration *prometheus.HistogramVec
}

// NewShopMetrics registers the shop metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation and outcome.",
	}, []string{"op", "outcome"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders committed.",
	})
	stockConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_stock_conflicts_total",
		Help: "Order placements aborted because a conditional stock decrement matched no row.",
	})
	placementDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_placement_duration_seconds",
		Help:    "Duration of order placement in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	reg.MustRegister(cartMutations, ordersPlaced, stockConflicts, placementDuration)
	return &ShopMetrics{
		cartMutations:     cartMutations,
		ordersPlaced:      ordersPlaced,
		stockConflicts:    stockConflicts,
		placementDuration: placementDuration,
	}
}

// CartMutation counts one cart operation.
func (m *ShopMetrics) CartMutation(op, outcome string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// OrderPlaced increments the committed order counter.
func (m *ShopMetrics) OrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// StockConflict increments the conflict counter.
func (m *ShopMetrics) StockConflict() {
	if m == nil || m.stockConflicts == nil {
		return
	}
	m.stockConflicts.Inc()
}

// ObservePlacement records how long a placement attempt took.
func (m *ShopMetrics) ObservePlacement(outcome string, duration time.Duration) {
	if m == nil || m.placementDuration == nil {
		return
	}
	m.placementDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
