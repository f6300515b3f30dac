// Package service runs the competition ranking: it reads the match log from
// the results store, rates the players and publishes the ranking back.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/okian/pacpong/internal/adapters/repository"
	"github.com/okian/pacpong/internal/domain/model"
	"github.com/okian/pacpong/internal/domain/rating"
	"github.com/okian/pacpong/pkg/logger"
	"github.com/okian/pacpong/pkg/metrics"
)

const tracerName = "github.com/okian/pacpong/internal/app"

// ErrNoStore is returned by Run when the service has no results store.
var ErrNoStore = errors.New("no results store configured")

// Service performs ranking runs against a results store.
type Service struct {
	store   repository.Store
	engine  *rating.Engine
	metrics *metrics.Manager
	logger  logger.Logger
	now     func() time.Time
	loc     *time.Location
	tp      trace.TracerProvider
	tracer  trace.Tracer
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the store matches are read from and rankings written to.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithEngine sets the rating engine.
func WithEngine(engine *rating.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithMetrics sets the metrics manager runs are recorded on.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock the reference date and publish time come from.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone the reference date is taken in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithTracerProvider sets the provider run spans are created on. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tp = tp
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:  rating.NewEngine(),
		metrics: metrics.Default(),
		now:     time.Now,
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.tp == nil {
		s.tp = otel.GetTracerProvider()
	}
	s.tracer = s.tp.Tracer(tracerName)
	return s
}

// Run performs one ranking run: read the match log, compute the ranking and
// publish it. Nothing is written when reading or computing fails.
func (s *Service) Run(ctx context.Context) (*model.RankingTable, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}

	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))
	now := s.now().In(s.loc)

	ctx, span := s.tracer.Start(ctx, "pacpong.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("run.reference_date", now.Format(model.DateLayout)),
	))
	defer span.End()

	log.Info(ctx, "ranking run started", logger.String("reference", now.Format(repository.TimestampLayout)))

	table, res, err := s.run(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.RecordRun(metrics.OutcomeFailure)
		log.Error(ctx, "ranking run failed", logger.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("run.players", table.Len()),
		attribute.Int("run.matches", res.Matches),
		attribute.Float64("run.eigenvalue", res.Eigenvalue),
	)
	span.SetStatus(codes.Ok, "ranking published")
	s.metrics.RecordRun(metrics.OutcomeSuccess)
	s.metrics.MarkSuccess(s.now())

	for _, st := range table.Standings() {
		log.Info(ctx, "standing",
			logger.Int("rank", st.Rank),
			logger.String("player", st.Player),
			logger.Float64("score", st.Score),
		)
	}
	log.Info(ctx, "ranking run finished",
		logger.Int("players", table.Len()),
		logger.Int("matches", res.Matches),
	)
	return table, nil
}

func (s *Service) run(ctx context.Context, now time.Time) (*model.RankingTable, *rating.Result, error) {
	var records []model.MatchRecord
	err := s.stage(ctx, metrics.StageRead, func(ctx context.Context) error {
		var err error
		records, err = s.store.ReadMatches(ctx)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("read matches: %w", err)
	}
	s.metrics.SetMatches(len(records))

	var res *rating.Result
	err = s.stage(ctx, metrics.StageCompute, func(context.Context) error {
		var err error
		res, err = s.engine.Run(records, now)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("compute ranking: %w", err)
	}
	s.metrics.SetRanking(res.Table.Len(), res.Eigenvalue)

	err = s.stage(ctx, metrics.StageWrite, func(ctx context.Context) error {
		return s.store.WriteRanking(ctx, res.Table, now)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("write ranking: %w", err)
	}
	return res.Table, res, nil
}

// stage runs fn in its own span and records its duration and failure.
func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "pacpong."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveStage(name, time.Since(start))
	if err != nil {
		s.metrics.RecordStageFailure(name)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}
