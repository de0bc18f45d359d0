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

// UpdateGuests changes an entry's guest count and applies the slot delta to
// the round counter for non-waitlist entries. It does not promote: a
// reduction frees slots, but the next sweep-and-promote pass (which every
// feed read runs) picks that up. Waitlist entries hold no slots, so only
// their stored count changes.
func (s *RoundService) UpdateGuests(ctx context.Context, entryID int64, guests int, callerPlayerID int64) error {
	ctx, span := s.startSpan(ctx, "UpdateGuests",
		attribute.Int64("entry_id", entryID),
		attribute.Int("guests", guests),
	)
	defer span.End()

	if guests < 0 || guests > MaxGuests {
		return ErrGuestLimit
	}

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

		if entry.Status != rounddb.StatusWaitlist {
			round, err := s.repo.GetRound(ctx, db, entry.RoundID)
			if err != nil {
				if errors.Is(err, rounddb.ErrNotFound) {
					return ErrRoundNotFound
				}
				return fmt.Errorf("failed to load round: %w", err)
			}

			delta := (1 + guests) - (1 + entry.Guests)
			if delta != 0 {
				if err := s.adjustGolfers(ctx, db, round, delta); err != nil {
					return fmt.Errorf("failed to update round occupancy: %w", err)
				}
			}
		}

		if err := s.repo.UpdateEntryGuests(ctx, db, entryID, guests); err != nil {
			return fmt.Errorf("failed to update guest count: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Entry guest count updated",
		slog.Int64("entry_id", entryID),
		slog.Int("guests", guests),
	)
	return nil
}
