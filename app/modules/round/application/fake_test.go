package roundservice

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake DB
// ------------------------

// FakeDB is a minimal fake that satisfies the TxRunner requirement.
type FakeDB struct {
	bun.IDB
}

// RunInTx simply executes the provided function, bypassing real DB logic.
func (f *FakeDB) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context, bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

// ------------------------
// Fake Round Repo
// ------------------------

// FakeRoundRepository provides a programmable stub for the rounddb.Repository
// interface.
type FakeRoundRepository struct {
	trace []string

	CreateRoundFunc          func(ctx context.Context, db bun.IDB, round *rounddb.Round) error
	GetRoundFunc             func(ctx context.Context, db bun.IDB, roundID int64) (*rounddb.Round, error)
	GetRoundByCourseDateFunc func(ctx context.Context, db bun.IDB, course string, date time.Time) (*rounddb.Round, error)
	ListUpcomingFunc         func(ctx context.Context, db bun.IDB, from time.Time) ([]*rounddb.Round, error)
	UpdateGolfersFunc        func(ctx context.Context, db bun.IDB, roundID int64, golfers int) error

	CreateEntryFunc          func(ctx context.Context, db bun.IDB, entry *rounddb.Entry) error
	GetEntryFunc             func(ctx context.Context, db bun.IDB, entryID int64) (*rounddb.Entry, error)
	DeleteEntryFunc          func(ctx context.Context, db bun.IDB, entryID int64) error
	UpdateEntryStatusFunc    func(ctx context.Context, db bun.IDB, entryID int64, status rounddb.EntryStatus) error
	UpdateEntryGuestsFunc    func(ctx context.Context, db bun.IDB, entryID int64, guests int) error
	ListEntriesForRoundFunc  func(ctx context.Context, db bun.IDB, roundID int64) ([]*rounddb.Entry, error)
	NextWaitlistedFunc       func(ctx context.Context, db bun.IDB, roundID int64) (*rounddb.Entry, error)
	ListExpiredTentativeFunc func(ctx context.Context, db bun.IDB, now time.Time, roundID *int64) ([]*rounddb.Entry, error)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRoundRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// NewFakeRoundRepository initializes a new FakeRoundRepository.
func NewFakeRoundRepository() *FakeRoundRepository {
	return &FakeRoundRepository{
		trace: []string{},
	}
}

func (f *FakeRoundRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeRoundRepository) CreateRound(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, db, round)
	}
	return nil
}

func (f *FakeRoundRepository) GetRound(ctx context.Context, db bun.IDB, roundID int64) (*rounddb.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepository) GetRoundByCourseDate(ctx context.Context, db bun.IDB, course string, date time.Time) (*rounddb.Round, error) {
	f.record("GetRoundByCourseDate")
	if f.GetRoundByCourseDateFunc != nil {
		return f.GetRoundByCourseDateFunc(ctx, db, course, date)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepository) ListUpcoming(ctx context.Context, db bun.IDB, from time.Time) ([]*rounddb.Round, error) {
	f.record("ListUpcoming")
	if f.ListUpcomingFunc != nil {
		return f.ListUpcomingFunc(ctx, db, from)
	}
	return []*rounddb.Round{}, nil
}

func (f *FakeRoundRepository) UpdateGolfers(ctx context.Context, db bun.IDB, roundID int64, golfers int) error {
	f.record("UpdateGolfers")
	if f.UpdateGolfersFunc != nil {
		return f.UpdateGolfersFunc(ctx, db, roundID, golfers)
	}
	return nil
}

func (f *FakeRoundRepository) CreateEntry(ctx context.Context, db bun.IDB, entry *rounddb.Entry) error {
	f.record("CreateEntry")
	if f.CreateEntryFunc != nil {
		return f.CreateEntryFunc(ctx, db, entry)
	}
	return nil
}

func (f *FakeRoundRepository) GetEntry(ctx context.Context, db bun.IDB, entryID int64) (*rounddb.Entry, error) {
	f.record("GetEntry")
	if f.GetEntryFunc != nil {
		return f.GetEntryFunc(ctx, db, entryID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepository) DeleteEntry(ctx context.Context, db bun.IDB, entryID int64) error {
	f.record("DeleteEntry")
	if f.DeleteEntryFunc != nil {
		return f.DeleteEntryFunc(ctx, db, entryID)
	}
	return nil
}

func (f *FakeRoundRepository) UpdateEntryStatus(ctx context.Context, db bun.IDB, entryID int64, status rounddb.EntryStatus) error {
	f.record("UpdateEntryStatus")
	if f.UpdateEntryStatusFunc != nil {
		return f.UpdateEntryStatusFunc(ctx, db, entryID, status)
	}
	return nil
}

func (f *FakeRoundRepository) UpdateEntryGuests(ctx context.Context, db bun.IDB, entryID int64, guests int) error {
	f.record("UpdateEntryGuests")
	if f.UpdateEntryGuestsFunc != nil {
		return f.UpdateEntryGuestsFunc(ctx, db, entryID, guests)
	}
	return nil
}

func (f *FakeRoundRepository) ListEntriesForRound(ctx context.Context, db bun.IDB, roundID int64) ([]*rounddb.Entry, error) {
	f.record("ListEntriesForRound")
	if f.ListEntriesForRoundFunc != nil {
		return f.ListEntriesForRoundFunc(ctx, db, roundID)
	}
	return []*rounddb.Entry{}, nil
}

func (f *FakeRoundRepository) NextWaitlisted(ctx context.Context, db bun.IDB, roundID int64) (*rounddb.Entry, error) {
	f.record("NextWaitlisted")
	if f.NextWaitlistedFunc != nil {
		return f.NextWaitlistedFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepository) ListExpiredTentative(ctx context.Context, db bun.IDB, now time.Time, roundID *int64) ([]*rounddb.Entry, error) {
	f.record("ListExpiredTentative")
	if f.ListExpiredTentativeFunc != nil {
		return f.ListExpiredTentativeFunc(ctx, db, now, roundID)
	}
	return []*rounddb.Entry{}, nil
}

// Ensure the fake actually satisfies the interface
var _ rounddb.Repository = (*FakeRoundRepository)(nil)

// ------------------------
// Fake Player Directory
// ------------------------

type fakePlayers struct {
	PlayerExistsFunc func(ctx context.Context, db bun.IDB, playerID int64) (bool, error)
}

func (f *fakePlayers) PlayerExists(ctx context.Context, db bun.IDB, playerID int64) (bool, error) {
	if f.PlayerExistsFunc != nil {
		return f.PlayerExistsFunc(ctx, db, playerID)
	}
	return true, nil
}

var _ PlayerDirectory = (*fakePlayers)(nil)

// ------------------------
// Fake Metrics
// ------------------------

type fakeMetrics struct {
	mu        sync.Mutex
	swept     int
	promoted  int
	proposals map[bool]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{proposals: map[bool]int{}}
}

func (m *fakeMetrics) RecordSweptEntries(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swept += n
}

func (m *fakeMetrics) RecordPromotion() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.promoted++
}

func (m *fakeMetrics) RecordProposal(created bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[created]++
}

var _ Metrics = (*fakeMetrics)(nil)

// ------------------------
// In-memory repository
// ------------------------

// memRepo is a stateful in-memory rounddb.Repository for end-to-end engine
// scenarios where the programmable stub would be too rigid. Not safe for
// concurrent use; the engine serializes per-round work anyway.
type memRepo struct {
	nextRoundID int64
	nextEntryID int64
	rounds      map[int64]*rounddb.Round
	entries     map[int64]*rounddb.Entry
}

func newMemRepo() *memRepo {
	return &memRepo{
		rounds:  map[int64]*rounddb.Round{},
		entries: map[int64]*rounddb.Entry{},
	}
}

func (m *memRepo) CreateRound(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	m.nextRoundID++
	round.ID = m.nextRoundID
	cp := *round
	m.rounds[round.ID] = &cp
	return nil
}

func (m *memRepo) GetRound(ctx context.Context, db bun.IDB, roundID int64) (*rounddb.Round, error) {
	round, ok := m.rounds[roundID]
	if !ok {
		return nil, rounddb.ErrNotFound
	}
	cp := *round
	return &cp, nil
}

func (m *memRepo) GetRoundByCourseDate(ctx context.Context, db bun.IDB, course string, date time.Time) (*rounddb.Round, error) {
	for _, round := range m.rounds {
		if round.Course == course && round.Date.Equal(date) {
			cp := *round
			return &cp, nil
		}
	}
	return nil, rounddb.ErrNotFound
}

func (m *memRepo) ListUpcoming(ctx context.Context, db bun.IDB, from time.Time) ([]*rounddb.Round, error) {
	var out []*rounddb.Round
	for _, round := range m.rounds {
		if !round.Date.Before(from) {
			cp := *round
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *memRepo) UpdateGolfers(ctx context.Context, db bun.IDB, roundID int64, golfers int) error {
	round, ok := m.rounds[roundID]
	if !ok {
		return rounddb.ErrNotFound
	}
	round.Golfers = golfers
	return nil
}

func (m *memRepo) CreateEntry(ctx context.Context, db bun.IDB, entry *rounddb.Entry) error {
	m.nextEntryID++
	entry.ID = m.nextEntryID
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *memRepo) GetEntry(ctx context.Context, db bun.IDB, entryID int64) (*rounddb.Entry, error) {
	entry, ok := m.entries[entryID]
	if !ok {
		return nil, rounddb.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

func (m *memRepo) DeleteEntry(ctx context.Context, db bun.IDB, entryID int64) error {
	if _, ok := m.entries[entryID]; !ok {
		return rounddb.ErrNotFound
	}
	delete(m.entries, entryID)
	return nil
}

func (m *memRepo) UpdateEntryStatus(ctx context.Context, db bun.IDB, entryID int64, status rounddb.EntryStatus) error {
	entry, ok := m.entries[entryID]
	if !ok {
		return rounddb.ErrNotFound
	}
	entry.Status = status
	entry.ExpiresAt = nil
	return nil
}

func (m *memRepo) UpdateEntryGuests(ctx context.Context, db bun.IDB, entryID int64, guests int) error {
	entry, ok := m.entries[entryID]
	if !ok {
		return rounddb.ErrNotFound
	}
	entry.Guests = guests
	return nil
}

func (m *memRepo) ListEntriesForRound(ctx context.Context, db bun.IDB, roundID int64) ([]*rounddb.Entry, error) {
	var out []*rounddb.Entry
	for _, entry := range m.entries {
		if entry.RoundID == roundID {
			cp := *entry
			out = append(out, &cp)
		}
	}
	sortEntries(out)
	return out, nil
}

func (m *memRepo) NextWaitlisted(ctx context.Context, db bun.IDB, roundID int64) (*rounddb.Entry, error) {
	var candidates []*rounddb.Entry
	for _, entry := range m.entries {
		if entry.RoundID == roundID && entry.Status == rounddb.StatusWaitlist {
			candidates = append(candidates, entry)
		}
	}
	if len(candidates) == 0 {
		return nil, rounddb.ErrNotFound
	}
	sortEntries(candidates)
	cp := *candidates[0]
	return &cp, nil
}

func (m *memRepo) ListExpiredTentative(ctx context.Context, db bun.IDB, now time.Time, roundID *int64) ([]*rounddb.Entry, error) {
	var out []*rounddb.Entry
	for _, entry := range m.entries {
		if entry.Status != rounddb.StatusMaybe || entry.ExpiresAt == nil {
			continue
		}
		if entry.ExpiresAt.After(now) {
			continue
		}
		if roundID != nil && entry.RoundID != *roundID {
			continue
		}
		cp := *entry
		out = append(out, &cp)
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []*rounddb.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

var _ rounddb.Repository = (*memRepo)(nil)

// ------------------------
// Test clock
// ------------------------

// testClock is a Clock pinned to a settable instant so expiry math is
// deterministic.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time    { return c.now }
func (c *testClock) NowUTC() time.Time { return c.now.UTC() }

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// newTestService wires a RoundService around the given repository with a
// clock pinned to anchor. The returned clock can be advanced to trigger
// expiry.
func newTestService(repo rounddb.Repository, anchor time.Time) (*RoundService, *fakeMetrics, *testClock) {
	metrics := newFakeMetrics()
	clock := &testClock{now: anchor}
	svc := NewRoundService(repo, &FakeDB{}, &fakePlayers{}, nil, clock, metrics, nil)
	return svc, metrics, clock
}
