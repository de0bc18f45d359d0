package roundservice

import (
	"context"
	"fmt"
)

// ListUpcoming is the read-side feed: it runs the sweep-and-promote pass
// over every upcoming round, then returns those rounds ordered by date
// ascending with their current entries and occupancy.
func (s *RoundService) ListUpcoming(ctx context.Context) ([]RoundView, error) {
	ctx, span := s.startSpan(ctx, "ListUpcoming")
	defer span.End()

	if err := s.SweepAndPromote(ctx, nil); err != nil {
		return nil, err
	}

	rounds, err := s.repo.ListUpcoming(ctx, nil, s.clock.NowUTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming rounds: %w", err)
	}

	views := make([]RoundView, 0, len(rounds))
	for _, round := range rounds {
		entries, err := s.repo.ListEntriesForRound(ctx, nil, round.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries for round %d: %w", round.ID, err)
		}
		views = append(views, RoundView{Round: round, Entries: entries})
	}
	return views, nil
}
