// Package metrics exposes Prometheus instrumentation for the stamp,
// verify, and upgrade lifecycles.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StampRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ots",
		Name:      "stamp_requests_total",
		Help:      "Total Stamp calls attempted.",
	})

	VerifyRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ots",
		Name:      "verify_requests_total",
		Help:      "Total Verify calls attempted.",
	})

	UpgradeRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ots",
		Name:      "upgrade_requests_total",
		Help:      "Total Upgrade calls attempted.",
	})

	PendingAttestations = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "ots",
		Name:      "pending_attestations",
		Help:      "Pending attestations observed across the last Upgrade call.",
	})

	VerifyOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ots",
		Name:      "verify_outcomes_total",
		Help:      "Verify results by status (verified, failed, pending, skipped, error).",
	}, []string{"status"})

	CalendarErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ots",
		Name:      "calendar_errors_total",
		Help:      "Calendar server errors during Stamp or Upgrade, by server.",
	}, []string{"server"})
)

func init() {
	prometheus.MustRegister(
		StampRequests,
		VerifyRequests,
		UpgradeRequests,
		PendingAttestations,
		VerifyOutcomes,
		CalendarErrors,
	)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
