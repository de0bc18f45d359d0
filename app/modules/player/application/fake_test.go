package playerservice

import (
	"context"
	"database/sql"

	playerdb "github.com/fairway-collective/foursome/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeDB is a minimal fake that satisfies the TxRunner requirement.
type FakeDB struct {
	bun.IDB
}

// RunInTx simply executes the provided function, bypassing real DB logic.
func (f *FakeDB) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context, bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

// FakePlayerRepository provides a programmable stub for the
// playerdb.Repository interface.
type FakePlayerRepository struct {
	trace []string

	GetUserBySubjectFunc func(ctx context.Context, db bun.IDB, subject string) (*playerdb.User, error)
	CreateUserFunc       func(ctx context.Context, db bun.IDB, user *playerdb.User) error
	LinkPlayerFunc       func(ctx context.Context, db bun.IDB, userID, playerID int64) error
	GetPlayerFunc        func(ctx context.Context, db bun.IDB, playerID int64) (*playerdb.Player, error)
	CreatePlayerFunc     func(ctx context.Context, db bun.IDB, player *playerdb.Player) error
	PlayerExistsFunc     func(ctx context.Context, db bun.IDB, playerID int64) (bool, error)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakePlayerRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// NewFakePlayerRepository initializes a new FakePlayerRepository.
func NewFakePlayerRepository() *FakePlayerRepository {
	return &FakePlayerRepository{
		trace: []string{},
	}
}

func (f *FakePlayerRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakePlayerRepository) GetUserBySubject(ctx context.Context, db bun.IDB, subject string) (*playerdb.User, error) {
	f.record("GetUserBySubject")
	if f.GetUserBySubjectFunc != nil {
		return f.GetUserBySubjectFunc(ctx, db, subject)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepository) CreateUser(ctx context.Context, db bun.IDB, user *playerdb.User) error {
	f.record("CreateUser")
	if f.CreateUserFunc != nil {
		return f.CreateUserFunc(ctx, db, user)
	}
	return nil
}

func (f *FakePlayerRepository) LinkPlayer(ctx context.Context, db bun.IDB, userID, playerID int64) error {
	f.record("LinkPlayer")
	if f.LinkPlayerFunc != nil {
		return f.LinkPlayerFunc(ctx, db, userID, playerID)
	}
	return nil
}

func (f *FakePlayerRepository) GetPlayer(ctx context.Context, db bun.IDB, playerID int64) (*playerdb.Player, error) {
	f.record("GetPlayer")
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, db, playerID)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepository) CreatePlayer(ctx context.Context, db bun.IDB, player *playerdb.Player) error {
	f.record("CreatePlayer")
	if f.CreatePlayerFunc != nil {
		return f.CreatePlayerFunc(ctx, db, player)
	}
	return nil
}

func (f *FakePlayerRepository) PlayerExists(ctx context.Context, db bun.IDB, playerID int64) (bool, error) {
	f.record("PlayerExists")
	if f.PlayerExistsFunc != nil {
		return f.PlayerExistsFunc(ctx, db, playerID)
	}
	return false, nil
}

// Ensure the fake actually satisfies the interface
var _ playerdb.Repository = (*FakePlayerRepository)(nil)
