// Command baselinker-sync exports BaseLinker orders and follows the order
// journal, writing one JSON document per line to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Sternrassler/baselinker-client/internal/config"
	"github.com/Sternrassler/baselinker-client/pkg/client"
	"github.com/Sternrassler/baselinker-client/pkg/entities"
	"github.com/Sternrassler/baselinker-client/pkg/journal"
	"github.com/Sternrassler/baselinker-client/pkg/logging"
	"github.com/Sternrassler/baselinker-client/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	modeOrders  = "orders"
	modeJournal = "journal"

	shutdownTimeout = 5 * time.Second
)

func main() {
	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Error().Err(err).Msg("baselinker-sync failed")
		os.Exit(1)
	}
}

type options struct {
	mode        string
	dateFrom    int64
	statusID    int64
	email       string
	unconfirmed bool
	logsTypes   []entities.LogType
	interval    time.Duration
}

func parseFlags(args []string) (options, error) {
	var opts options
	var logsTypes string

	fs := flag.NewFlagSet("baselinker-sync", flag.ContinueOnError)
	fs.StringVar(&opts.mode, "mode", modeOrders, "what to sync: orders | journal")
	fs.Int64Var(&opts.dateFrom, "date-from", 0, "orders: unix time of the oldest order to export")
	fs.Int64Var(&opts.statusID, "status-id", 0, "orders: only orders in this status")
	fs.StringVar(&opts.email, "email", "", "orders: only orders of this buyer")
	fs.BoolVar(&opts.unconfirmed, "unconfirmed", false, "orders: include unconfirmed orders")
	fs.StringVar(&logsTypes, "logs-types", "", "journal: comma-separated log type IDs to follow")
	fs.DurationVar(&opts.interval, "interval", 0, "journal: poll interval; 0 polls once")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.mode {
	case modeOrders, modeJournal:
	default:
		return options{}, fmt.Errorf("unsupported mode %q", opts.mode)
	}
	if opts.dateFrom < 0 || opts.statusID < 0 {
		return options{}, errors.New("date-from and status-id must not be negative")
	}
	if opts.interval < 0 {
		return options{}, fmt.Errorf("interval must not be negative, got %s", opts.interval)
	}

	types, err := parseLogsTypes(logsTypes)
	if err != nil {
		return options{}, err
	}
	opts.logsTypes = types

	return opts, nil
}

func parseLogsTypes(value string) ([]entities.LogType, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	var types []entities.LogType
	for _, part := range strings.Split(value, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid log type %q", part)
		}
		types = append(types, entities.LogType(id))
	}
	return types, nil
}

func (o options) ordersParams() client.OrdersParams {
	var params client.OrdersParams
	if o.dateFrom > 0 {
		params.DateFrom = client.Ptr(o.dateFrom)
	}
	if o.statusID > 0 {
		params.StatusID = client.Ptr(o.statusID)
	}
	if o.unconfirmed {
		params.GetUnconfirmedOrders = client.Ptr(true)
	}
	params.FilterEmail = o.email
	return params
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.Setup(cfg.LoggingConfig()).With().Str("component", "baselinker-sync").Logger()

	blClient, err := client.New(cfg.ClientConfig())
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	switch opts.mode {
	case modeJournal:
		return followJournal(ctx, blClient, cfg, opts, stdout, logger)
	default:
		return exportOrders(ctx, blClient, opts, stdout, logger)
	}
}

func exportOrders(ctx context.Context, c *client.Client, opts options, out io.Writer, logger zerolog.Logger) error {
	started := time.Now()

	orders, err := c.GetOrders(ctx, opts.ordersParams())
	if err != nil {
		return fmt.Errorf("get orders: %w", err)
	}
	if err := writeLines(out, orders); err != nil {
		return err
	}

	logger.Info().
		Int("orders", len(orders)).
		Dur("duration", time.Since(started)).
		Msg("Orders exported")
	return nil
}

func followJournal(ctx context.Context, c *client.Client, cfg config.Config, opts options, out io.Writer, logger zerolog.Logger) error {
	store, closeStore, err := newCursorStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	follower, err := journal.NewFollower(c, store, journal.Config{
		Name:       cfg.Journal.Name,
		StartLogID: cfg.Journal.StartLogID,
		LogsTypes:  opts.logsTypes,
	})
	if err != nil {
		return err
	}

	handle := func(_ context.Context, logs []entities.Log) error {
		return writeLines(out, logs)
	}

	if opts.interval == 0 {
		n, err := follower.Process(ctx, handle)
		if err != nil {
			return err
		}
		logger.Info().Int("entries", n).Msg("Journal polled")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return follower.Run(gctx, opts.interval, handle)
	})

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           statusRouter(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info().Str("addr", srv.Addr).Msg("Starting metrics server")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	logger.Info().
		Str("follower", cfg.Journal.Name).
		Dur("interval", opts.interval).
		Msg("Following journal")

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info().Msg("Journal follower shut down")
	return nil
}

// newCursorStore returns a Redis store when REDIS_URL is set and an
// in-memory store otherwise.
func newCursorStore(ctx context.Context, cfg config.Config) (journal.CursorStore, func(), error) {
	if cfg.Redis.URL == "" {
		return journal.NewMemoryStore(), func() {}, nil
	}

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	return journal.NewRedisStore(redisClient, cfg.Journal.Name), func() { redisClient.Close() }, nil
}

func statusRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// writeLines writes each item as one JSON line.
func writeLines[T any](out io.Writer, items []T) error {
	enc := json.NewEncoder(out)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return nil
}
