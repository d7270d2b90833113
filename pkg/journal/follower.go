package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/baselinker-client/pkg/client"
	"github.com/Sternrassler/baselinker-client/pkg/entities"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	journalLastLogID = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "baselinker_journal_last_log_id",
			Help: "Highest journal log_id processed by a follower",
		},
		[]string{"follower"},
	)

	journalPollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselinker_journal_polls_total",
			Help: "Total number of journal polls by result",
		},
		[]string{"follower", "result"},
	)
)

// JournalLister fetches journal entries. *client.Client implements it.
type JournalLister interface {
	GetJournalList(ctx context.Context, params client.JournalParams) ([]entities.Log, error)
}

// HandleFunc processes a batch of new journal entries.
type HandleFunc func(ctx context.Context, logs []entities.Log) error

// Config holds follower configuration.
type Config struct {
	// Name identifies the follower in store keys, metrics and logs.
	Name string

	// StartLogID is used as last_log_id while no cursor is stored.
	StartLogID int64

	// LogsTypes restricts the followed event types. Empty follows all.
	LogsTypes []entities.LogType

	// Logger overrides the global logger.
	Logger *zerolog.Logger
}

// Follower reads new journal entries and advances a stored cursor.
type Follower struct {
	lister JournalLister
	store  CursorStore
	cfg    Config
	logger zerolog.Logger
}

// NewFollower creates a follower.
func NewFollower(lister JournalLister, store CursorStore, cfg Config) (*Follower, error) {
	if lister == nil {
		return nil, errors.New("journal lister is required")
	}
	if store == nil {
		return nil, errors.New("cursor store is required")
	}
	if cfg.Name == "" {
		return nil, errors.New("follower name is required")
	}
	if cfg.StartLogID < 0 {
		return nil, fmt.Errorf("start log id must not be negative, got %d", cfg.StartLogID)
	}

	logger := log.With().Str("component", "journal-follower").Str("follower", cfg.Name).Logger()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("follower", cfg.Name).Logger()
	}

	return &Follower{
		lister: lister,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Cursor returns the current position, falling back to StartLogID.
func (f *Follower) Cursor(ctx context.Context) (Cursor, error) {
	cursor, err := f.store.Load(ctx)
	if errors.Is(err, ErrNoCursor) {
		return Cursor{LastLogID: f.cfg.StartLogID}, nil
	}
	return cursor, err
}

// Poll fetches the entries after the stored cursor and advances the cursor
// to the highest log_id returned.
func (f *Follower) Poll(ctx context.Context) ([]entities.Log, error) {
	return f.poll(ctx, nil)
}

// Process polls once and hands new entries to handle before advancing the
// cursor. It returns the number of entries handled.
func (f *Follower) Process(ctx context.Context, handle HandleFunc) (int, error) {
	logs, err := f.poll(ctx, handle)
	return len(logs), err
}

// Run polls every interval until ctx is done, passing each non-empty batch
// to handle. The cursor only advances after handle succeeds, so a failed
// batch is delivered again on the next tick. Poll errors are logged and do
// not stop the loop.
func (f *Follower) Run(ctx context.Context, interval time.Duration, handle HandleFunc) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := f.poll(ctx, handle); err != nil && ctx.Err() == nil {
			f.logger.Error().Err(err).Msg("Journal poll failed")
		}

		select {
		case <-ctx.Done():
			f.logger.Info().Msg("Journal follower stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *Follower) poll(ctx context.Context, handle HandleFunc) ([]entities.Log, error) {
	cursor, err := f.Cursor(ctx)
	if err != nil {
		journalPollsTotal.WithLabelValues(f.cfg.Name, "store_error").Inc()
		return nil, err
	}

	logs, err := f.lister.GetJournalList(ctx, client.JournalParams{
		LastLogID: client.Ptr(cursor.LastLogID),
		LogsTypes: f.cfg.LogsTypes,
	})
	if err != nil {
		journalPollsTotal.WithLabelValues(f.cfg.Name, "fetch_error").Inc()
		return nil, fmt.Errorf("fetch journal after log %d: %w", cursor.LastLogID, err)
	}

	if len(logs) == 0 {
		journalPollsTotal.WithLabelValues(f.cfg.Name, "empty").Inc()
		f.logger.Debug().Int64("last_log_id", cursor.LastLogID).Msg("No new journal entries")
		return logs, nil
	}

	if handle != nil {
		if err := handle(ctx, logs); err != nil {
			journalPollsTotal.WithLabelValues(f.cfg.Name, "handler_error").Inc()
			return nil, fmt.Errorf("handle %d journal entries: %w", len(logs), err)
		}
	}

	next := Cursor{LastLogID: maxLogID(logs, cursor.LastLogID), UpdatedAt: time.Now()}
	if err := f.store.Save(ctx, next); err != nil {
		journalPollsTotal.WithLabelValues(f.cfg.Name, "store_error").Inc()
		return nil, err
	}

	journalPollsTotal.WithLabelValues(f.cfg.Name, "ok").Inc()
	journalLastLogID.WithLabelValues(f.cfg.Name).Set(float64(next.LastLogID))

	f.logger.Info().
		Int("entries", len(logs)).
		Int64("from_log_id", cursor.LastLogID).
		Int64("last_log_id", next.LastLogID).
		Msg("Journal cursor advanced")

	return logs, nil
}

// maxLogID returns the highest log_id in logs, never less than floor.
func maxLogID(logs []entities.Log, floor int64) int64 {
	latest := floor
	for _, l := range logs {
		if l.LogID > latest {
			latest = l.LogID
		}
	}
	return latest
}
