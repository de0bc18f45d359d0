package roundservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
)

// SweepAndPromote retires expired tentative entries and backfills from the
// waitlist. With a nil roundID it covers every upcoming round; otherwise it
// is scoped to one round. Each round is reconciled in its own transaction.
//
// Occupancy is eventually-reconciled, so this must run before any read that
// reports it. Running the sweep twice is a no-op: swept entries are gone
// after the first pass.
func (s *RoundService) SweepAndPromote(ctx context.Context, roundID *int64) error {
	ctx, span := s.startSpan(ctx, "SweepAndPromote")
	defer span.End()

	if roundID != nil {
		span.SetAttributes(attribute.Int64("round_id", *roundID))
		return s.sweepRound(ctx, *roundID)
	}

	rounds, err := s.repo.ListUpcoming(ctx, nil, s.clock.NowUTC())
	if err != nil {
		return fmt.Errorf("failed to list upcoming rounds: %w", err)
	}
	for _, round := range rounds {
		if err := s.sweepRound(ctx, round.ID); err != nil {
			return err
		}
	}
	return nil
}

// sweepRound reconciles one round: removes its expired tentatives through
// the shared removal path (counter decrement plus backfill), then runs a
// final promotion pass. The whole thing is one transaction so a concurrent
// sweep or removal cannot double-promote.
func (s *RoundService) sweepRound(ctx context.Context, roundID int64) error {
	return s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
		round, err := s.repo.GetRound(ctx, db, roundID)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return ErrRoundNotFound
			}
			return fmt.Errorf("failed to load round: %w", err)
		}

		now := s.clock.NowUTC()
		expired, err := s.repo.ListExpiredTentative(ctx, db, now, &roundID)
		if err != nil {
			return fmt.Errorf("failed to list expired entries: %w", err)
		}

		for _, entry := range expired {
			if err := s.removeEntryLocked(ctx, db, round, entry); err != nil {
				return fmt.Errorf("failed to sweep entry %d: %w", entry.ID, err)
			}
		}
		if len(expired) > 0 {
			if s.metrics != nil {
				s.metrics.RecordSweptEntries(len(expired))
			}
			s.logger.InfoContext(ctx, "Expired tentative entries swept",
				slog.Int64("round_id", roundID),
				slog.Int("count", len(expired)),
			)
		}

		if _, err := s.promoteLocked(ctx, db, round); err != nil {
			return err
		}
		return nil
	})
}
