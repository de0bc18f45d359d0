package rounddb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for rounds and entries.
//
// Every method takes a bun.IDB so callers can thread a transaction through;
// passing nil falls back to the repository's default connection.
//
// Error semantics:
//   - ErrNotFound: requested record does not exist (Get*/Next* methods)
//   - other errors: infrastructure failures
type Repository interface {
	// Round operations
	CreateRound(ctx context.Context, db bun.IDB, round *Round) error
	GetRound(ctx context.Context, db bun.IDB, roundID int64) (*Round, error)
	GetRoundByCourseDate(ctx context.Context, db bun.IDB, course string, date time.Time) (*Round, error)
	ListUpcoming(ctx context.Context, db bun.IDB, from time.Time) ([]*Round, error)
	UpdateGolfers(ctx context.Context, db bun.IDB, roundID int64, golfers int) error

	// Entry operations
	CreateEntry(ctx context.Context, db bun.IDB, entry *Entry) error
	GetEntry(ctx context.Context, db bun.IDB, entryID int64) (*Entry, error)
	DeleteEntry(ctx context.Context, db bun.IDB, entryID int64) error
	UpdateEntryStatus(ctx context.Context, db bun.IDB, entryID int64, status EntryStatus) error
	UpdateEntryGuests(ctx context.Context, db bun.IDB, entryID int64, guests int) error
	ListEntriesForRound(ctx context.Context, db bun.IDB, roundID int64) ([]*Entry, error)

	// NextWaitlisted returns the oldest WAITLIST entry for a round,
	// ordered by created_at then id for deterministic promotion.
	NextWaitlisted(ctx context.Context, db bun.IDB, roundID int64) (*Entry, error)

	// ListExpiredTentative returns MAYBE entries whose expiry has passed.
	// A nil roundID scopes the query to every round.
	ListExpiredTentative(ctx context.Context, db bun.IDB, now time.Time, roundID *int64) ([]*Entry, error)
}
