package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentSessionsTotal,
		paymentNotificationsTotal,
		paymentRevenueKurus,
	)
}

var (
	paymentSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_sessions_total",
			Help: "Gateway session creation attempts by outcome (created/rejected/unavailable/config_error).",
		},
		[]string{"outcome"},
	)

	paymentNotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_notifications_total",
			Help: "Inbound gateway notifications by result (paid/failed/duplicate/unverified/orphan).",
		},
		[]string{"result"},
	)

	paymentRevenueKurus = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_revenue_kurus_total",
			Help: "Sum of successfully paid order totals, in minor currency units.",
		},
	)
)

func IncPaymentSession(outcome string) {
	paymentSessionsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncPaymentNotification(result string) {
	paymentNotificationsTotal.WithLabelValues(norm(result)).Inc()
}

func AddRevenueKurus(amount int64) {
	if amount > 0 {
		paymentRevenueKurus.Add(float64(amount))
	}
}
