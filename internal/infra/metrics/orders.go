package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		ordersCreatedTotal,
		orderStatusTransitions,
	)
}

var (
	ordersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders persisted in pending state, labeled by paper size and binding type.",
		},
		[]string{"size", "binding"},
	)

	orderStatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Terminal order transitions (paid/failed).",
		},
		[]string{"status"},
	)
)

func IncOrderCreated(size, binding string) {
	ordersCreatedTotal.WithLabelValues(norm(size), norm(binding)).Inc()
}

func IncOrderTransition(status string) {
	orderStatusTransitions.WithLabelValues(norm(status)).Inc()
}

// norm keeps label cardinality sane.
func norm(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "unknown"
	}
	return s
}
