package service

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/movielab/movie-reservation/internal/model"
	"github.com/movielab/movie-reservation/internal/queue"
)

type mockShowtimeStore struct{ mock.Mock }

func (m *mockShowtimeStore) CreateTx(ctx context.Context, tx *sql.Tx, st *model.Showtime) error {
	return m.Called(ctx, tx, st).Error(0)
}

func (m *mockShowtimeStore) GetByID(ctx context.Context, id uint64) (model.Showtime, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Showtime), args.Error(1)
}

type mockSeatStore struct{ mock.Mock }

func (m *mockSeatStore) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	return m.Called(ctx, tx, seats).Error(0)
}

func (m *mockSeatStore) LockByIDsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	args := m.Called(ctx, tx, showtimeID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Seat), args.Error(1)
}

func (m *mockSeatStore) LockByIDTx(ctx context.Context, tx *sql.Tx, seatID uint64) (model.Seat, error) {
	args := m.Called(ctx, tx, seatID)
	return args.Get(0).(model.Seat), args.Error(1)
}

func (m *mockSeatStore) SetReservedTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, reserved bool) error {
	return m.Called(ctx, tx, seatIDs, reserved).Error(0)
}

func (m *mockSeatStore) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Seat), args.Error(1)
}

func (m *mockSeatStore) ListAvailable(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Seat), args.Error(1)
}

type mockReservationStore struct{ mock.Mock }

func (m *mockReservationStore) CreateBulkTx(ctx context.Context, tx *sql.Tx, reservations []model.Reservation) error {
	return m.Called(ctx, tx, reservations).Error(0)
}

func (m *mockReservationStore) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	args := m.Called(ctx, tx, id)
	return args.Get(0).(model.Reservation), args.Error(1)
}

func (m *mockReservationStore) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus) error {
	return m.Called(ctx, tx, id, status).Error(0)
}

func (m *mockReservationStore) ListByUser(ctx context.Context, userID uint64, upcomingOnly bool) ([]model.ReservationDetail, error) {
	args := m.Called(ctx, userID, upcomingOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReservationDetail), args.Error(1)
}

type mockMovieStore struct{ mock.Mock }

func (m *mockMovieStore) GetByID(ctx context.Context, id uint64) (model.Movie, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Movie), args.Error(1)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) ReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func (m *mockEventPublisher) ReservationCancelled(ctx context.Context, ev queue.ReservationCancelledEvent) error {
	return m.Called(ctx, ev).Error(0)
}
