package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for paginated fetches.
var (
	pagesFetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "baselinker_pages_fetched_total",
		Help: "Total pages fetched by list method",
	}, []string{"method"})

	pagesPerCollect = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "baselinker_pages_per_collect",
		Help:    "Number of pages needed to collect a full result set",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	}, []string{"method"})
)

// Config holds pagination configuration.
type Config struct {
	// PageSize is the server-side page cap. A page of exactly this size means
	// more data may follow.
	PageSize int

	// Name labels logs and metrics, usually the API method name.
	Name string

	// Logger overrides the global logger.
	Logger *zerolog.Logger
}

// FetchFunc fetches the next page. seen holds every item collected so far
// (empty on the first call) so the function can derive its cursor from it.
// The function must not retain or modify seen.
type FetchFunc[T any] func(ctx context.Context, seen []T) ([]T, error)

// Collect fetches pages until one is shorter than cfg.PageSize and returns all
// items in page order. Any failure discards everything fetched so far.
func Collect[T any](ctx context.Context, cfg Config, fetch FetchFunc[T]) ([]T, error) {
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be > 0 (got %d)", cfg.PageSize)
	}

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	start := time.Now()
	var items []T

	for page := 1; ; page++ {
		batch, err := fetch(ctx, items)
		if err != nil {
			logger.Debug().
				Err(err).
				Str("method", cfg.Name).
				Int("page", page).
				Msg("Page fetch failed")
			return nil, err
		}

		items = append(items, batch...)
		pagesFetchedTotal.WithLabelValues(cfg.Name).Inc()

		logger.Debug().
			Str("method", cfg.Name).
			Int("page", page).
			Int("page_size", len(batch)).
			Int("total", len(items)).
			Msg("Page fetched")

		if len(batch) < cfg.PageSize {
			pagesPerCollect.WithLabelValues(cfg.Name).Observe(float64(page))
			logger.Debug().
				Str("method", cfg.Name).
				Int("pages", page).
				Int("total", len(items)).
				Dur("duration", time.Since(start)).
				Msg("Collect complete")
			break
		}
	}

	if items == nil {
		items = []T{}
	}
	return items, nil
}
