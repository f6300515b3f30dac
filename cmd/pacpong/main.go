// Command pacpong reads the competition's match log, ranks the players and
// publishes the ranking grid back to the results store. It runs once and
// exits non-zero when the run fails.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/pacpong/internal/adapters/repository"
	app "github.com/okian/pacpong/internal/app"
	"github.com/okian/pacpong/internal/config"
	"github.com/okian/pacpong/internal/domain/rating"
	"github.com/okian/pacpong/pkg/logger"
	"github.com/okian/pacpong/pkg/metrics"
	"github.com/okian/pacpong/pkg/tracing"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	serviceName     = "pacpong"
	shutdownTimeout = 10 * time.Second
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr since logger isn't configured yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "pacpong failed", logger.Error(err))
		return 1
	}
	return 0
}

// run performs one ranking run with everything cfg describes.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	tp, err := tracing.NewProvider(ctx, tracing.Config{
		ServiceName:  serviceName,
		Enabled:      cfg.Tracing.Enabled,
		Endpoint:     cfg.Tracing.Endpoint,
		Insecure:     cfg.Tracing.Insecure,
		SamplingRate: cfg.Tracing.SamplingRate,
	}, log.Named("tracing"))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn(ctx, "tracing shutdown failed", logger.Error(err))
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	store, closeStore, err := openStore(runCtx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn(ctx, "closing store failed", logger.Error(err))
		}
	}()

	manager := newMetrics(cfg.Metrics)
	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithEngine(rating.NewEngine(
			rating.WithDecayDays(cfg.DecayDays),
			rating.WithNotPlayedScore(cfg.NotPlayedScore),
		)),
		app.WithMetrics(manager),
		app.WithLocation(loc),
		app.WithTracerProvider(tp.TracerProvider()),
	)
	_, runErr := svc.Run(runCtx)

	// Push even a failed run so the failure counter reaches the gateway.
	if cfg.Metrics.PushgatewayURL != "" {
		if err := manager.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			log.Warn(ctx, "pushing metrics failed", logger.Error(err))
		}
	}
	return runErr
}

// newMetrics builds the metrics manager of one run on a fresh registry.
func newMetrics(cfg config.MetricsConfig) *metrics.Manager {
	return metrics.NewManager(
		metrics.WithNamespace(cfg.Namespace),
		metrics.WithSubsystem(cfg.Subsystem),
		metrics.WithCustomLabels(cfg.Labels),
		metrics.WithHistogramBuckets(cfg.StageBuckets),
		metrics.WithMetricsEnabled(cfg.Enabled),
		metrics.WithPrometheusRegistry(prometheus.NewRegistry()),
	)
}

// openStore builds the results store cfg selects. The returned func
// releases it.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.Store, func() error, error) {
	opts := []repository.Option{repository.WithLogger(log)}
	noClose := func() error { return nil }

	switch cfg.Store {
	case config.StoreSheets:
		store, err := repository.NewSheetsStore(ctx, repository.SheetsConfig{
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			MatchesSheet:  cfg.Sheets.MatchesSheet,
			ResultsSheet:  cfg.Sheets.ResultsSheet,
			ClientOptions: repository.CredentialsOptions(cfg.Sheets.CredentialsFile),
		}, opts...)
		if err != nil {
			return nil, nil, err
		}
		return store, noClose, nil
	case config.StoreCSV:
		return repository.NewCSVStore(cfg.CSV.MatchesPath, cfg.CSV.ResultsPath, opts...), noClose, nil
	case config.StorePostgres:
		store, err := repository.OpenPostgres(ctx, cfg.Postgres.DSN, opts...)
		if err != nil {
			return nil, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown store %q", config.ErrInvalidConfig, cfg.Store)
	}
}
