// Package metrics holds the Prometheus collectors for the scorehook service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook surface metrics
	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorehook_webhook_events_total",
			Help: "Total number of webhook events received",
		},
		[]string{"endpoint", "status"},
	)

	// Async pipeline metrics
	AsyncTasksInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scorehook_async_tasks_in_flight",
			Help: "Number of background score updates scheduled but not yet finished",
		},
	)

	AsyncTaskResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scorehook_async_task_results_total",
			Help: "Total number of finished background score updates",
		},
		[]string{"outcome"},
	)

	// CRM client metrics
	CRMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scorehook_crm_request_duration_seconds",
			Help:    "Duration of requests to the CRM record store in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)
)
