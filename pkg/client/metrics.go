package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for API calls.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baselinker_requests_total",
		Help: "Total BaseLinker requests by API method and HTTP status",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "baselinker_request_duration_seconds",
		Help:    "BaseLinker request duration in seconds by API method",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"method"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baselinker_errors_total",
		Help: "Total BaseLinker errors by class",
	}, []string{"class"})

	itemsFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baselinker_items_fetched_total",
		Help: "Total entities decoded by API method",
	}, []string{"method"})
)
