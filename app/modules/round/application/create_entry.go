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

// CreateEntry registers a player's claim on a round. A MAYBE entry gets an
// expiry of now + TentativeTTL; CONFIRMED and WAITLIST entries carry none.
// Non-waitlist entries consume slots immediately.
func (s *RoundService) CreateEntry(ctx context.Context, in CreateEntryInput) (*rounddb.Entry, error) {
	ctx, span := s.startSpan(ctx, "CreateEntry",
		attribute.Int64("round_id", in.RoundID),
		attribute.Int64("player_id", in.PlayerID),
	)
	defer span.End()

	if in.Guests < 0 || in.Guests > MaxGuests {
		return nil, ErrGuestLimit
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var entry *rounddb.Entry
	err := s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
		round, err := s.repo.GetRound(ctx, db, in.RoundID)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return ErrRoundNotFound
			}
			return fmt.Errorf("failed to load round: %w", err)
		}

		ok, err := s.players.PlayerExists(ctx, db, in.PlayerID)
		if err != nil {
			return fmt.Errorf("failed to check player: %w", err)
		}
		if !ok {
			return ErrPlayerNotFound
		}

		now := s.clock.NowUTC()
		entry = &rounddb.Entry{
			RoundID:   in.RoundID,
			PlayerID:  in.PlayerID,
			Status:    in.Status,
			Guests:    in.Guests,
			Notes:     in.Notes,
			CreatedAt: now,
		}
		if in.Status == rounddb.StatusMaybe {
			expiry := now.Add(TentativeTTL)
			entry.ExpiresAt = &expiry
		}

		if err := s.repo.CreateEntry(ctx, db, entry); err != nil {
			return fmt.Errorf("failed to persist entry: %w", err)
		}

		if in.Status != rounddb.StatusWaitlist {
			if err := s.adjustGolfers(ctx, db, round, SlotsFor(entry)); err != nil {
				return fmt.Errorf("failed to update round occupancy: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Entry created",
		slog.Int64("entry_id", entry.ID),
		slog.Int64("round_id", in.RoundID),
		slog.Int64("player_id", in.PlayerID),
		slog.String("status", string(in.Status)),
		slog.Int("guests", in.Guests),
	)
	return entry, nil
}
