// Package metrics defines the engine's Prometheus instrumentation. The
// registry is an explicit dependency handed to constructors rather than the
// process-global default, so tests can run isolated registries.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the settlement-engine counters.
type Metrics struct {
	PaymentsRecorded     prometheus.Counter
	ObligationsCreated   prometheus.Counter
	ObligationsSettled   prometheus.Counter
	ForgedSignatures     prometheus.Counter
	GatewayOrders        prometheus.Counter
	GatewayOrderFailures prometheus.Counter
}

// New creates the counters and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		PaymentsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settleup_payments_recorded_total",
			Help: "Participant shares marked paid.",
		}),
		ObligationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settleup_obligations_created_total",
			Help: "Obligations created.",
		}),
		ObligationsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settleup_obligations_settled_total",
			Help: "Obligations fully paid and removed from the live store.",
		}),
		ForgedSignatures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settleup_forged_signatures_total",
			Help: "Inbound payment confirmations that failed signature verification.",
		}),
		GatewayOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settleup_gateway_orders_created_total",
			Help: "Payment-gateway orders created.",
		}),
		GatewayOrderFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "settleup_gateway_order_failures_total",
			Help: "Payment-gateway order creations that failed upstream.",
		}),
	}
	reg.MustRegister(
		m.PaymentsRecorded,
		m.ObligationsCreated,
		m.ObligationsSettled,
		m.ForgedSignatures,
		m.GatewayOrders,
		m.GatewayOrderFailures,
	)
	return m
}
