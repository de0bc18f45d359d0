package playerdb

import (
	"time"

	"github.com/uptrace/bun"
)

// User links an authenticated subject to its player. PlayerID stays null
// until the user's first signup.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Subject       string    `bun:"subject,notnull,unique"`
	PlayerID      *int64    `bun:"player_id,nullzero"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Player is a participant in rounds. Never auto-deleted.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Name          string    `bun:"name,notnull"`
	Email         string    `bun:"email,nullzero"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
