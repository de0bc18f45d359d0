package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a round or entry is not found.
var ErrNotFound = errors.New("record not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// CreateRound inserts a new round and scans back the generated ID.
func (r *Impl) CreateRound(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	err := db.NewInsert().
		Model(round).
		ExcludeColumn("id").
		Returning("id").
		Scan(ctx, &round.ID)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetRound retrieves a specific round by ID.
func (r *Impl) GetRound(ctx context.Context, db bun.IDB, roundID int64) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("r.id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch round: %w", err)
	}
	return round, nil
}

// GetRoundByCourseDate retrieves a round by exact (course, date) equality.
func (r *Impl) GetRoundByCourseDate(ctx context.Context, db bun.IDB, course string, date time.Time) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("r.course = ?", course).
		Where("r.date = ?", date).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch round by course and date: %w", err)
	}
	return round, nil
}

// ListUpcoming retrieves rounds with date >= from, ordered by date ascending.
func (r *Impl) ListUpcoming(ctx context.Context, db bun.IDB, from time.Time) ([]*Round, error) {
	db = r.resolveDB(db)
	var rounds []*Round
	err := db.NewSelect().
		Model(&rounds).
		Where("r.date >= ?", from).
		Order("r.date ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming rounds: %w", err)
	}
	return rounds, nil
}

// UpdateGolfers writes the occupied-slot counter for a round.
func (r *Impl) UpdateGolfers(ctx context.Context, db bun.IDB, roundID int64, golfers int) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Round)(nil)).
		Set("golfers = ?", golfers).
		Where("id = ?", roundID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update golfers count: %w", err)
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

// CreateEntry inserts a new entry and scans back the generated ID.
func (r *Impl) CreateEntry(ctx context.Context, db bun.IDB, entry *Entry) error {
	db = r.resolveDB(db)
	err := db.NewInsert().
		Model(entry).
		ExcludeColumn("id").
		Returning("id").
		Scan(ctx, &entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// GetEntry retrieves a specific entry by ID.
func (r *Impl) GetEntry(ctx context.Context, db bun.IDB, entryID int64) (*Entry, error) {
	db = r.resolveDB(db)
	entry := new(Entry)
	err := db.NewSelect().
		Model(entry).
		Where("e.id = ?", entryID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry deletes an entry by ID.
func (r *Impl) DeleteEntry(ctx context.Context, db bun.IDB, entryID int64) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*Entry)(nil)).
		Where("id = ?", entryID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
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

// UpdateEntryStatus writes a new status and clears the expiry. The expiry is
// only meaningful for MAYBE entries, so every transition out of that state
// nulls it.
func (r *Impl) UpdateEntryStatus(ctx context.Context, db bun.IDB, entryID int64, status EntryStatus) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Entry)(nil)).
		Set("status = ?", status).
		Set("expires_at = NULL").
		Where("id = ?", entryID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update entry status: %w", err)
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

// UpdateEntryGuests writes a new guest count for an entry.
func (r *Impl) UpdateEntryGuests(ctx context.Context, db bun.IDB, entryID int64, guests int) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Entry)(nil)).
		Set("guests = ?", guests).
		Where("id = ?", entryID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update entry guests: %w", err)
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

// ListEntriesForRound retrieves a round's entries with player names joined,
// ordered by creation time.
func (r *Impl) ListEntriesForRound(ctx context.Context, db bun.IDB, roundID int64) ([]*Entry, error) {
	db = r.resolveDB(db)
	var entries []*Entry
	err := db.NewSelect().
		Model(&entries).
		ColumnExpr("e.*").
		ColumnExpr("p.name AS player_name").
		Join("LEFT JOIN players AS p ON p.id = e.player_id").
		Where("e.round_id = ?", roundID).
		Order("e.created_at ASC", "e.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for round: %w", err)
	}
	return entries, nil
}

// NextWaitlisted returns the oldest WAITLIST entry for a round. Creation
// time orders the queue; id breaks ties so promotion is deterministic.
func (r *Impl) NextWaitlisted(ctx context.Context, db bun.IDB, roundID int64) (*Entry, error) {
	db = r.resolveDB(db)
	entry := new(Entry)
	err := db.NewSelect().
		Model(entry).
		Where("e.round_id = ?", roundID).
		Where("e.status = ?", StatusWaitlist).
		Order("e.created_at ASC", "e.id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch next waitlisted entry: %w", err)
	}
	return entry, nil
}

// ListExpiredTentative returns MAYBE entries with expires_at <= now,
// optionally scoped to one round.
func (r *Impl) ListExpiredTentative(ctx context.Context, db bun.IDB, now time.Time, roundID *int64) ([]*Entry, error) {
	db = r.resolveDB(db)
	var entries []*Entry
	q := db.NewSelect().
		Model(&entries).
		Where("e.status = ?", StatusMaybe).
		Where("e.expires_at <= ?", now)
	if roundID != nil {
		q = q.Where("e.round_id = ?", *roundID)
	}
	err := q.Order("e.round_id ASC", "e.created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired tentative entries: %w", err)
	}
	return entries, nil
}
