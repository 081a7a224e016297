package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for the transfer/webhook core. Registered on the default
// registry and exposed at /metrics.
var (
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_transfers_total",
		Help: "Outbound transfer attempts by type and outcome",
	}, []string{"type", "outcome"})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_webhook_events_total",
		Help: "Inbound provider webhook events by provider and outcome",
	}, []string{"provider", "outcome"})

	LockContentionTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_lock_contention_total",
		Help: "Transfer attempts rejected because the per-user lock was held",
	})

	ProviderCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_provider_call_duration_seconds",
		Help:    "Latency of synchronous provider gateway calls",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"provider", "operation"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"method", "path", "status"})
)
