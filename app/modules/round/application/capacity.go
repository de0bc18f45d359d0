package roundservice

import (
	"context"
	"time"

	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// SlotsFor returns the number of slots an entry consumes: one for the
// player plus one per guest.
func SlotsFor(entry *rounddb.Entry) int {
	return 1 + entry.Guests
}

// clampSlots keeps a slot count non-negative.
func clampSlots(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// adjustGolfers applies a signed slot delta to the round's counter, clamped
// at zero, and persists the result. The caller decides whether an entry
// counts; this only does the arithmetic.
func (s *RoundService) adjustGolfers(ctx context.Context, db bun.IDB, round *rounddb.Round, delta int) error {
	round.Golfers = clampSlots(round.Golfers + delta)
	return s.repo.UpdateGolfers(ctx, db, round.ID, round.Golfers)
}

// RecountSlots recomputes a round's occupancy from its entries: the slot sum
// over entries that are not waitlisted and not expired tentatives. The stored
// golfers counter is a cache of this value.
func RecountSlots(entries []*rounddb.Entry, now time.Time) int {
	total := 0
	for _, e := range entries {
		if e.Status == rounddb.StatusWaitlist {
			continue
		}
		if e.Status == rounddb.StatusMaybe && e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			continue
		}
		total += SlotsFor(e)
	}
	return total
}
