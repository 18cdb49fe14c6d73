package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks dispatched API requests per command and outcome
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Total number of API requests dispatched",
		},
		[]string{"command", "outcome"},
	)

	// RequestDuration tracks end-to-end dispatch latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_request_duration_seconds",
			Help:    "API request dispatch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	// QueueRemovals tracks persisted-queue removals by final disposition
	QueueRemovals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_persisted_removals_total",
			Help: "Total number of persisted request queue removals",
		},
		[]string{"reason"},
	)

	// QueueSize tracks the current persisted queue depth
	QueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_persisted_queue_size",
			Help: "Current number of persisted requests awaiting replay",
		},
	)

	// WatchdogRechecks tracks connectivity rechecks triggered by the watchdog
	WatchdogRechecks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_watchdog_rechecks_total",
			Help: "Total number of connectivity rechecks triggered by slow requests",
		},
	)

	// ReplayAttempts tracks replay worker attempts by result
	ReplayAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_replay_attempts_total",
			Help: "Total number of persisted request replay attempts",
		},
		[]string{"result"},
	)
)
