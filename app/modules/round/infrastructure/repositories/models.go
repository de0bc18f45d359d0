package rounddb

import (
	"time"

	"github.com/uptrace/bun"
)

// EntryStatus represents the signup state of an entry.
type EntryStatus string

// Define the possible status values as constants.
const (
	StatusConfirmed EntryStatus = "CONFIRMED"
	StatusMaybe     EntryStatus = "MAYBE"
	StatusWaitlist  EntryStatus = "WAITLIST"
)

// Valid reports whether s is one of the closed set of entry statuses.
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusMaybe, StatusWaitlist:
		return true
	}
	return false
}

// Round represents a schedulable golf round.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Date          time.Time `bun:"date,notnull"`
	Course        string    `bun:"course,notnull"`
	Notes         string    `bun:"notes,nullzero"`
	Golfers       int       `bun:"golfers,notnull,default:0"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Entry represents one player's claim on a round. ExpiresAt is set only
// while Status is MAYBE; CONFIRMED and WAITLIST entries carry a null expiry.
type Entry struct {
	bun.BaseModel `bun:"table:entries,alias:e"`
	ID            int64       `bun:"id,pk,autoincrement"`
	RoundID       int64       `bun:"round_id,notnull"`
	PlayerID      int64       `bun:"player_id,notnull"`
	Status        EntryStatus `bun:"status,notnull"`
	Guests        int         `bun:"guests,notnull,default:0"`
	Notes         string      `bun:"notes,nullzero"`
	ExpiresAt     *time.Time  `bun:"expires_at,nullzero"`
	CreatedAt     time.Time   `bun:"created_at,notnull"`

	// PlayerName is populated by read queries that join the players table.
	PlayerName string `bun:"player_name,scanonly"`
}
