package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		couponsIssuedTotal,
		couponsRedeemedTotal,
	)
}

var (
	couponsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupons_issued_total",
			Help: "Coupons issued, labeled by type (welcome/referral).",
		},
		[]string{"type"},
	)

	couponsRedeemedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coupons_redeemed_total",
			Help: "Coupon usage increments on confirmed payments, labeled by type.",
		},
		[]string{"type"},
	)
)

func IncCouponIssued(typ string) {
	couponsIssuedTotal.WithLabelValues(norm(typ)).Inc()
}

func IncCouponRedeemed(typ string) {
	couponsRedeemedTotal.WithLabelValues(norm(typ)).Inc()
}
