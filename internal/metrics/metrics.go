package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CheckoutDuration - latence de soumission d'une commande à la passerelle
	CheckoutDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farmavida_checkout_duration_seconds",
			Help:    "Durée des soumissions de commande, en secondes",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"status"}, // success, gateway_error, validation_error
	)

	// FreightResolveDuration - latence de résolution du fret, par source
	FreightResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farmavida_freight_resolve_duration_seconds",
			Help:    "Durée de la résolution des options de livraison, en secondes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"source"}, // table, carrier, none
	)

	// CouponRedemptions - compteur de consommations d'utilisation de coupon
	CouponRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farmavida_coupon_redemptions_total",
			Help: "Nombre de tentatives de consommation de coupon, par résultat",
		},
		[]string{"result"}, // success, exhausted, conflict
	)
)

func RecordCheckoutDuration(status string, seconds float64) {
	CheckoutDuration.WithLabelValues(status).Observe(seconds)
}

func RecordFreightResolveDuration(source string, seconds float64) {
	FreightResolveDuration.WithLabelValues(source).Observe(seconds)
}

func RecordCouponRedemption(result string) {
	CouponRedemptions.WithLabelValues(result).Inc()
}
