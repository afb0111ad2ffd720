package odoo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	odooCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "odoo_calls_total",
			Help: "Total number of Odoo execute_kw calls",
		},
		[]string{"model", "method", "status"},
	)

	odooCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "odoo_call_duration_seconds",
			Help:    "Odoo execute_kw call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model", "method"},
	)

	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
