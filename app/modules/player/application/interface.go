package playerservice

import (
	"context"
	"database/sql"

	playerdb "github.com/fairway-collective/foursome/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// Service resolves authenticated users to players, creating the player
// lazily on first signup.
type Service interface {
	// EnsureForUser returns the player linked to the subject, creating and
	// linking one if the user has none yet.
	EnsureForUser(ctx context.Context, subject, name, email string) (*playerdb.Player, error)

	// ResolvePlayer returns the player linked to the subject, or ErrNoPlayer
	// if the user has never signed up.
	ResolvePlayer(ctx context.Context, subject string) (*playerdb.Player, error)
}

// TxRunner is the subset of *bun.DB the service needs to open transactions.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}
