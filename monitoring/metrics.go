package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chainCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chain_calls_total",
			Help: "Total contract calls by function and outcome",
		},
		[]string{"function", "outcome"},
	)

	chainCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chain_call_duration_seconds",
			Help:    "Duration of single contract calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"function"},
	)

	ticketScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_scans_total",
			Help: "Total enumeration scans by outcome",
		},
		[]string{"outcome"},
	)

	ticketsDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_discovered_total",
			Help: "Total token ids recovered by enumeration scans",
		},
	)

	purchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "purchases_total",
			Help: "Total purchase attempts by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

// TrackChainCall records the outcome of one contract call.
func TrackChainCall(function, outcome string) {
	chainCalls.WithLabelValues(function, outcome).Inc()
}

// ObserveChainCallDuration records how long one contract call took.
func ObserveChainCallDuration(function string, d time.Duration) {
	chainCallDuration.WithLabelValues(function).Observe(d.Seconds())
}

// TrackScan records the outcome of one enumeration scan and how many
// tokens it recovered.
func TrackScan(outcome string, found int) {
	ticketScans.WithLabelValues(outcome).Inc()
	ticketsDiscovered.Add(float64(found))
}

// TrackPurchase records a purchase attempt result.
func TrackPurchase(kind, outcome string) {
	purchases.WithLabelValues(kind, outcome).Inc()
}
