package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	NameLookups    *prometheus.CounterVec
	Confirmations  *prometheus.CounterVec
	PaymentCodes   *prometheus.CounterVec
	Visitors       prometheus.Counter
	HTTPRequests   *prometheus.CounterVec
	RevenuePending prometheus.Counter
}

// New creates and registers all metrics with reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		NameLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_name_lookups_total",
			Help: "Guest list lookups by result (found, not_found).",
		}, []string{"result"}),
		Confirmations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_confirmations_total",
			Help: "Saved attendance confirmations by payment status.",
		}, []string{"status"}),
		PaymentCodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_payment_codes_total",
			Help: "PIX payment codes generated by result (ok, invalid, error).",
		}, []string{"result"}),
		Visitors: f.NewCounter(prometheus.CounterOpts{
			Name: "registration_visitors_total",
			Help: "Visitors registered for facility access, companions included.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		RevenuePending: f.NewCounter(prometheus.CounterOpts{
			Name: "registration_revenue_pending_brl_total",
			Help: "Sum of totals of confirmations awaiting payment, in BRL.",
		}),
	}
}

// LookupResult records a guest list lookup
func (m *Metrics) LookupResult(found bool) {
	result := "not_found"
	if found {
		result = "found"
	}
	m.NameLookups.WithLabelValues(result).Inc()
}
