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

// ProposeRound creates a round unless one already exists for the exact
// (course, date) pair. A duplicate is a success no-op: the existing round is
// returned with created=false. This keeps the inbox watcher idempotent.
func (s *RoundService) ProposeRound(ctx context.Context, in ProposeRoundInput) (*rounddb.Round, bool, error) {
	ctx, span := s.startSpan(ctx, "ProposeRound",
		attribute.String("course", in.Course),
	)
	defer span.End()

	if in.Course == "" || in.Date.IsZero() {
		return nil, false, ErrMissingField
	}

	var (
		round   *rounddb.Round
		created bool
	)
	err := s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
		existing, err := s.repo.GetRoundByCourseDate(ctx, db, in.Course, in.Date)
		if err != nil && !errors.Is(err, rounddb.ErrNotFound) {
			return fmt.Errorf("failed to check for duplicate round: %w", err)
		}
		if existing != nil {
			round = existing
			return nil
		}

		round = &rounddb.Round{
			Course:  in.Course,
			Date:    in.Date,
			Notes:   in.Notes,
			Golfers: in.Golfers,
		}
		if err := s.repo.CreateRound(ctx, db, round); err != nil {
			return fmt.Errorf("failed to create round: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if s.metrics != nil {
		s.metrics.RecordProposal(created)
	}
	if created {
		s.logger.InfoContext(ctx, "Round created from proposal",
			slog.Int64("round_id", round.ID),
			slog.String("course", in.Course),
			slog.Time("date", in.Date),
		)
	} else {
		s.logger.DebugContext(ctx, "Duplicate round proposal skipped",
			slog.Int64("round_id", round.ID),
			slog.String("course", in.Course),
			slog.Time("date", in.Date),
		)
	}
	return round, created, nil
}
