// Package metrics exposes the Prometheus metrics of the BaseLinker client.
// The metrics themselves are defined next to the code that records them
// (client, pagination, journal) and registered via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gatherer is the gatherer served by Handler. promauto registers every
// metric of this module with the default registry it reads from.
var Gatherer = prometheus.DefaultGatherer

// Names lists every metric family this module records.
var Names = []string{
	"baselinker_requests_total",
	"baselinker_request_duration_seconds",
	"baselinker_errors_total",
	"baselinker_items_fetched_total",
	"baselinker_pages_fetched_total",
	"baselinker_pages_per_collect",
	"baselinker_journal_last_log_id",
	"baselinker_journal_polls_total",
}

// Handler returns the /metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - baselinker_requests_total{method, status} (Counter): Requests by API method and HTTP status ("network_error" when no response)
//   - baselinker_request_duration_seconds{method} (Histogram): Request duration by API method
//   - baselinker_errors_total{class} (Counter): Failures by class (client, server, redirect, unexpected, network, decoding)
//   - baselinker_items_fetched_total{method} (Counter): Orders and journal entries returned to callers
//
// Pagination Metrics (pkg/pagination):
//   - baselinker_pages_fetched_total{method} (Counter): Pages requested
//   - baselinker_pages_per_collect{method} (Histogram): Pages needed for one complete listing
//
// Journal Metrics (pkg/journal):
//   - baselinker_journal_last_log_id{follower} (Gauge): Cursor position of each follower
//   - baselinker_journal_polls_total{follower, result} (Counter): Polls by result (ok, empty, fetch_error, handler_error, store_error)
//
// Example Prometheus Queries:
//
//   # Failed request rate by class
//   sum by (class) (rate(baselinker_errors_total[5m]))
//
//   # P95 getOrders latency
//   histogram_quantile(0.95, rate(baselinker_request_duration_seconds_bucket{method="getOrders"}[5m]))
//
//   # Follower stalled
//   increase(baselinker_journal_polls_total{result="ok"}[30m]) == 0
