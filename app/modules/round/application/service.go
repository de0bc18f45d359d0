package roundservice

import (
	"context"
	"log/slog"

	roundutil "github.com/fairway-collective/foursome/app/modules/round/utils"
	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RoundService implements the Service interface. All mutations to a round's
// counter and its entries run inside a single transaction per operation, so
// concurrent operations on the same round serialize at the store.
type RoundService struct {
	repo    rounddb.Repository
	db      TxRunner
	players PlayerDirectory
	logger  *slog.Logger
	clock   roundutil.Clock
	metrics Metrics
	tracer  trace.Tracer
}

var _ Service = (*RoundService)(nil)

// NewRoundService creates a new RoundService.
func NewRoundService(
	repo rounddb.Repository,
	db TxRunner,
	players PlayerDirectory,
	logger *slog.Logger,
	clock roundutil.Clock,
	metrics Metrics,
	tracer trace.Tracer,
) *RoundService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = roundutil.RealClock{}
	}
	return &RoundService{
		repo:    repo,
		db:      db,
		players: players,
		logger:  logger,
		clock:   clock,
		metrics: metrics,
		tracer:  tracer,
	}
}

// runInTx opens a transaction and hands the bun.Tx to fn as a bun.IDB.
func (s *RoundService) runInTx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// startSpan starts a tracing span when a tracer is configured.
func (s *RoundService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
