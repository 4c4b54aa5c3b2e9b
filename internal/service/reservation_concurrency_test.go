package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielab/movie-reservation/internal/model"
)

// The fakes below emulate MySQL row locking in memory: LockByIDsTx
// blocks on a per-seat mutex exactly like SELECT ... FOR UPDATE blocks
// on a row lock, and the locks are released when the booking writes
// the seats (winner) or when a conflict is reported (loser, whose
// transaction the engine rolls back). Racing Book calls through the
// real engine against these fakes exercises the lock-before-validate
// protocol end to end.

type fakeSeatStore struct {
	mu    sync.Mutex
	seats map[uint64]*model.Seat
	locks map[uint64]*sync.Mutex
	held  map[*sql.Tx][]uint64
}

func newFakeSeatStore(seats ...model.Seat) *fakeSeatStore {
	f := &fakeSeatStore{
		seats: make(map[uint64]*model.Seat),
		locks: make(map[uint64]*sync.Mutex),
		held:  make(map[*sql.Tx][]uint64),
	}
	for i := range seats {
		s := seats[i]
		f.seats[s.ID] = &s
		f.locks[s.ID] = &sync.Mutex{}
	}
	return f
}

func (f *fakeSeatStore) LockByIDsTx(_ context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	out := make([]model.Seat, 0, len(seatIDs))
	conflict := false
	for _, id := range seatIDs {
		f.mu.Lock()
		seat, ok := f.seats[id]
		lock := f.locks[id]
		f.mu.Unlock()
		if !ok || seat.ShowtimeID != showtimeID {
			continue
		}
		lock.Lock()
		f.mu.Lock()
		f.held[tx] = append(f.held[tx], id)
		snapshot := *seat
		f.mu.Unlock()
		if snapshot.IsReserved {
			conflict = true
		}
		out = append(out, snapshot)
	}
	if conflict {
		// The engine rolls the transaction back on conflict, which in
		// MySQL would release the row locks.
		f.release(tx)
	}
	return out, nil
}

func (f *fakeSeatStore) LockByIDTx(_ context.Context, tx *sql.Tx, seatID uint64) (model.Seat, error) {
	f.mu.Lock()
	seat, ok := f.seats[seatID]
	lock := f.locks[seatID]
	f.mu.Unlock()
	if !ok {
		return model.Seat{}, errors.New("seat not found")
	}
	lock.Lock()
	f.mu.Lock()
	f.held[tx] = append(f.held[tx], seatID)
	snapshot := *seat
	f.mu.Unlock()
	return snapshot, nil
}

func (f *fakeSeatStore) SetReservedTx(_ context.Context, tx *sql.Tx, seatIDs []uint64, reserved bool) error {
	f.mu.Lock()
	for _, id := range seatIDs {
		if seat, ok := f.seats[id]; ok {
			seat.IsReserved = reserved
		}
	}
	f.mu.Unlock()
	f.release(tx)
	return nil
}

func (f *fakeSeatStore) release(tx *sql.Tx) {
	f.mu.Lock()
	ids := f.held[tx]
	delete(f.held, tx)
	f.mu.Unlock()
	for _, id := range ids {
		f.locks[id].Unlock()
	}
}

func (f *fakeSeatStore) CreateBulkTx(context.Context, *sql.Tx, []model.Seat) error { return nil }

func (f *fakeSeatStore) ListByShowtime(context.Context, uint64) ([]model.Seat, error) {
	return nil, nil
}

func (f *fakeSeatStore) ListAvailable(_ context.Context, showtimeID uint64) ([]model.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Seat
	for _, s := range f.seats {
		if s.ShowtimeID == showtimeID && !s.IsReserved {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeReservationStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   []model.Reservation
}

func (f *fakeReservationStore) CreateBulkTx(_ context.Context, _ *sql.Tx, reservations []model.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range reservations {
		f.nextID++
		reservations[i].ID = f.nextID
		f.rows = append(f.rows, reservations[i])
	}
	return nil
}

func (f *fakeReservationStore) GetByIDTx(context.Context, *sql.Tx, uint64) (model.Reservation, error) {
	return model.Reservation{}, errors.New("not implemented")
}

func (f *fakeReservationStore) SetStatusTx(context.Context, *sql.Tx, uint64, model.ReservationStatus) error {
	return nil
}

func (f *fakeReservationStore) ListByUser(context.Context, uint64, bool) ([]model.ReservationDetail, error) {
	return nil, nil
}

type fixedShowtimeStore struct{ st model.Showtime }

func (f fixedShowtimeStore) CreateTx(context.Context, *sql.Tx, *model.Showtime) error { return nil }
func (f fixedShowtimeStore) GetByID(context.Context, uint64) (model.Showtime, error) {
	return f.st, nil
}

type fixedMovieStore struct{ m model.Movie }

func (f fixedMovieStore) GetByID(context.Context, uint64) (model.Movie, error) { return f.m, nil }

func raceEngine(t *testing.T, seats *fakeSeatStore, ledger *fakeReservationStore, begins, commits, rollbacks int) *ReservationService {
	t.Helper()
	db, dbmock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	dbmock.MatchExpectationsInOrder(false)
	for i := 0; i < begins; i++ {
		dbmock.ExpectBegin()
	}
	for i := 0; i < commits; i++ {
		dbmock.ExpectCommit()
	}
	for i := 0; i < rollbacks; i++ {
		dbmock.ExpectRollback()
	}

	st := futureShowtime()
	return &ReservationService{
		DB:           db,
		Showtimes:    fixedShowtimeStore{st: st},
		Seats:        seats,
		Reservations: ledger,
		Movies:       fixedMovieStore{m: model.Movie{ID: st.MovieID, Title: "Heat"}},
		now:          func() time.Time { return testNow },
	}
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	const racers = 8
	seats := newFakeSeatStore(model.Seat{ID: 11, ShowtimeID: 7, Row: "A", Number: 1})
	ledger := &fakeReservationStore{}
	svc := raceEngine(t, seats, ledger, racers, 1, racers-1)

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), uint64(i+1), 7, []uint64{11})
		}(i)
	}
	wg.Wait()

	wins, conflicts := 0, 0
	for _, err := range errs {
		var conflict *SeatConflictError
		switch {
		case err == nil:
			wins++
		case errors.As(err, &conflict):
			conflicts++
			assert.Equal(t, []string{"A1"}, conflict.Labels)
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one booking must win the seat")
	assert.Equal(t, racers-1, conflicts)
	require.Len(t, ledger.rows, 1)
	assert.Equal(t, model.ReservationConfirmed, ledger.rows[0].Status)
	assert.True(t, seats.seats[11].IsReserved)
}

func TestConcurrentOverlappingMultiSeatBookings(t *testing.T) {
	seats := newFakeSeatStore(
		model.Seat{ID: 11, ShowtimeID: 7, Row: "A", Number: 1},
		model.Seat{ID: 12, ShowtimeID: 7, Row: "A", Number: 2},
		model.Seat{ID: 13, ShowtimeID: 7, Row: "A", Number: 3},
	)
	ledger := &fakeReservationStore{}
	svc := raceEngine(t, seats, ledger, 2, 1, 1)

	var wg sync.WaitGroup
	var errA, errB error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errA = svc.Book(context.Background(), 1, 7, []uint64{11, 12})
	}()
	go func() {
		defer wg.Done()
		_, errB = svc.Book(context.Background(), 2, 7, []uint64{12, 13})
	}()
	wg.Wait()

	var conflict *SeatConflictError
	if errA == nil {
		require.ErrorAs(t, errB, &conflict)
	} else {
		require.NoError(t, errB)
		require.ErrorAs(t, errA, &conflict)
	}
	// The loser's whole request failed: it reserved neither of its
	// seats, including the uncontended one.
	require.Len(t, ledger.rows, 2)
	reserved := 0
	for _, s := range seats.seats {
		if s.IsReserved {
			reserved++
		}
	}
	assert.Equal(t, 2, reserved)
}
