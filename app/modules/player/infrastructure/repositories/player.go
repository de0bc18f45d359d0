package playerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a user or player is not found.
var ErrNotFound = errors.New("record not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new player repository.
func NewRepository(db bun.IDB) *Impl {
	return &Impl{db: db}
}

var _ Repository = (*Impl)(nil)

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetUserBySubject retrieves a user by its external auth subject.
func (r *Impl) GetUserBySubject(ctx context.Context, db bun.IDB, subject string) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().
		Model(user).
		Where("u.subject = ?", subject).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by subject: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new user and scans back the generated ID.
func (r *Impl) CreateUser(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	err := db.NewInsert().
		Model(user).
		ExcludeColumn("id").
		Returning("id").
		Scan(ctx, &user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// LinkPlayer sets a user's player reference.
func (r *Impl) LinkPlayer(ctx context.Context, db bun.IDB, userID, playerID int64) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("player_id = ?", playerID).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to link player to user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPlayer retrieves a player by ID.
func (r *Impl) GetPlayer(ctx context.Context, db bun.IDB, playerID int64) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().
		Model(player).
		Where("p.id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

// CreatePlayer inserts a new player and scans back the generated ID.
func (r *Impl) CreatePlayer(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	err := db.NewInsert().
		Model(player).
		ExcludeColumn("id").
		Returning("id").
		Scan(ctx, &player.ID)
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// PlayerExists reports whether a player with the given ID exists.
func (r *Impl) PlayerExists(ctx context.Context, db bun.IDB, playerID int64) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Player)(nil)).
		Where("p.id = ?", playerID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check player existence: %w", err)
	}
	return exists, nil
}
