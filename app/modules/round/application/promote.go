package roundservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// promoteLocked advances waitlisted entries into confirmed slots while the
// round is below capacity, in arrival order (created_at, then id). Must run
// inside the caller's transaction.
//
// The capacity gate is checked before each admission, not after: a promoted
// entry's guests can push the total past RoundCapacity. That is deliberate —
// the next waitlisted group is admitted whole rather than split or skipped.
//
// A persistence failure stops the loop and surfaces the error; the round is
// left consistent (if under-promoted) for the next sweep to finish.
func (s *RoundService) promoteLocked(ctx context.Context, db bun.IDB, round *rounddb.Round) (int, error) {
	promoted := 0
	for round.Golfers < RoundCapacity {
		next, err := s.repo.NextWaitlisted(ctx, db, round.ID)
		if errors.Is(err, rounddb.ErrNotFound) {
			break
		}
		if err != nil {
			return promoted, fmt.Errorf("failed to fetch next waitlisted entry: %w", err)
		}

		// Status update also clears the expiry, a no-op for waitlist entries.
		if err := s.repo.UpdateEntryStatus(ctx, db, next.ID, rounddb.StatusConfirmed); err != nil {
			return promoted, fmt.Errorf("failed to promote entry %d: %w", next.ID, err)
		}
		if err := s.adjustGolfers(ctx, db, round, SlotsFor(next)); err != nil {
			return promoted, fmt.Errorf("failed to update occupancy for promoted entry %d: %w", next.ID, err)
		}

		promoted++
		if s.metrics != nil {
			s.metrics.RecordPromotion()
		}
		s.logger.InfoContext(ctx, "Waitlist entry promoted",
			slog.Int64("entry_id", next.ID),
			slog.Int64("round_id", round.ID),
			slog.Int("golfers", round.Golfers),
		)
	}
	return promoted, nil
}
