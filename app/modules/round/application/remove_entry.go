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

// RemoveEntry deletes an entry owned by the caller, releases its slots and
// backfills from the waitlist. The promotion pass runs inside the same
// transaction as the removal so two concurrent removals cannot promote the
// same waitlisted entry twice.
func (s *RoundService) RemoveEntry(ctx context.Context, entryID, callerPlayerID int64) error {
	ctx, span := s.startSpan(ctx, "RemoveEntry",
		attribute.Int64("entry_id", entryID),
	)
	defer span.End()

	err := s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
		entry, err := s.repo.GetEntry(ctx, db, entryID)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return ErrEntryNotFound
			}
			return fmt.Errorf("failed to load entry: %w", err)
		}
		if entry.PlayerID != callerPlayerID {
			return ErrNotEntryOwner
		}

		round, err := s.repo.GetRound(ctx, db, entry.RoundID)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return ErrRoundNotFound
			}
			return fmt.Errorf("failed to load round: %w", err)
		}

		return s.removeEntryLocked(ctx, db, round, entry)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Entry removed",
		slog.Int64("entry_id", entryID),
		slog.Int64("player_id", callerPlayerID),
	)
	return nil
}

// removeEntryLocked is the shared removal path used by RemoveEntry and the
// expiry sweep: release slots for non-waitlist entries (clamped at zero),
// delete the entry, then attempt to backfill from the waitlist. Must run
// inside the caller's transaction.
func (s *RoundService) removeEntryLocked(ctx context.Context, db bun.IDB, round *rounddb.Round, entry *rounddb.Entry) error {
	if entry.Status != rounddb.StatusWaitlist {
		if err := s.adjustGolfers(ctx, db, round, -SlotsFor(entry)); err != nil {
			return fmt.Errorf("failed to release slots: %w", err)
		}
	}

	if err := s.repo.DeleteEntry(ctx, db, entry.ID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if _, err := s.promoteLocked(ctx, db, round); err != nil {
		return err
	}
	return nil
}
