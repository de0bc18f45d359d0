package roundservice

import (
	"context"
	"database/sql"
	"time"

	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Service is the reconciliation engine's public surface.
type Service interface {
	CreateEntry(ctx context.Context, in CreateEntryInput) (*rounddb.Entry, error)
	RemoveEntry(ctx context.Context, entryID, callerPlayerID int64) error
	UpdateGuests(ctx context.Context, entryID int64, guests int, callerPlayerID int64) error
	SweepAndPromote(ctx context.Context, roundID *int64) error
	ListUpcoming(ctx context.Context) ([]RoundView, error)
	ProposeRound(ctx context.Context, in ProposeRoundInput) (*rounddb.Round, bool, error)
	Reconcile(ctx context.Context, roundID int64) (int, error)
}

// TxRunner is the subset of *bun.DB the service needs to open transactions.
// Each mutating operation runs inside one transaction scoped to a single
// round, which serializes counter updates for that round.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}

// PlayerDirectory answers whether a player exists, for entry creation checks.
type PlayerDirectory interface {
	PlayerExists(ctx context.Context, db bun.IDB, playerID int64) (bool, error)
}

// Metrics records engine activity. Implementations must be safe for
// concurrent use; a nil Metrics disables recording.
type Metrics interface {
	RecordSweptEntries(n int)
	RecordPromotion()
	RecordProposal(created bool)
}

// CreateEntryInput carries the fields for a new signup.
type CreateEntryInput struct {
	RoundID  int64
	PlayerID int64
	Status   rounddb.EntryStatus
	Guests   int
	Notes    string
}

// ProposeRoundInput carries the fields for a proposed round. Proposals are
// deduplicated by exact (Course, Date) equality.
type ProposeRoundInput struct {
	Course  string
	Date    time.Time
	Golfers int
	Notes   string
}

// RoundView is the read-side composition of a round and its entries.
type RoundView struct {
	Round   *rounddb.Round   `json:"round"`
	Entries []*rounddb.Entry `json:"entries"`
}
