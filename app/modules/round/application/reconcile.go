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

// Reconcile recomputes a round's golfers counter from its entries and
// persists the result, returning the recomputed value. The stored counter is
// a cache of RecountSlots; this repairs it if the two ever drift.
func (s *RoundService) Reconcile(ctx context.Context, roundID int64) (int, error) {
	ctx, span := s.startSpan(ctx, "Reconcile",
		attribute.Int64("round_id", roundID),
	)
	defer span.End()

	var golfers int
	err := s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
		round, err := s.repo.GetRound(ctx, db, roundID)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return ErrRoundNotFound
			}
			return fmt.Errorf("failed to load round: %w", err)
		}

		entries, err := s.repo.ListEntriesForRound(ctx, db, roundID)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		golfers = RecountSlots(entries, s.clock.NowUTC())
		if golfers == round.Golfers {
			return nil
		}

		s.logger.WarnContext(ctx, "Golfers counter drifted from entries",
			slog.Int64("round_id", roundID),
			slog.Int("stored", round.Golfers),
			slog.Int("recomputed", golfers),
		)
		return s.repo.UpdateGolfers(ctx, db, roundID, golfers)
	})
	if err != nil {
		return 0, err
	}
	return golfers, nil
}
