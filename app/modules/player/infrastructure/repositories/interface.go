package playerdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for users and players.
//
// Error semantics:
//   - ErrNotFound: requested record does not exist (Get* methods)
//   - other errors: infrastructure failures
type Repository interface {
	GetUserBySubject(ctx context.Context, db bun.IDB, subject string) (*User, error)
	CreateUser(ctx context.Context, db bun.IDB, user *User) error
	LinkPlayer(ctx context.Context, db bun.IDB, userID, playerID int64) error

	GetPlayer(ctx context.Context, db bun.IDB, playerID int64) (*Player, error)
	CreatePlayer(ctx context.Context, db bun.IDB, player *Player) error
	PlayerExists(ctx context.Context, db bun.IDB, playerID int64) (bool, error)
}
