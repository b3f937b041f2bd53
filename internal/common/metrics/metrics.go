// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gems_backend_fetches_total",
			Help: "Total number of backend fetches by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)

	BackendFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gems_backend_fetch_duration_seconds",
			Help: "Duration of backend fetches in seconds",
		},
		[]string{"endpoint"},
	)

	ListingStaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gems_listing_stale_responses_total",
			Help: "Responses discarded because a newer load had started",
		},
	)

	ListingDisplayedGems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gems_listing_displayed",
			Help: "Number of gems visible after filtering the current page",
		},
	)

	DevBackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gems_dev_backend_requests_total",
			Help: "Requests served by the dev backend",
		},
		[]string{"route", "status"},
	)
)
