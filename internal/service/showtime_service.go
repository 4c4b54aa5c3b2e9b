package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/movielab/movie-reservation/internal/model"
)

// Seat grid dimensions. Every showtime gets the same fixed grid of
// rows A through J with ten seats each, independent of the declared
// total_seats value, which is only used for capacity reporting.
const (
	gridRows          = "ABCDEFGHIJ"
	gridSeatsPerRow   = 10
	defaultTotalSeats = uint32(len(gridRows) * gridSeatsPerRow)
)

// ShowtimeInput carries the fields needed to create a showtime.
type ShowtimeInput struct {
	MovieID    uint64
	StartTime  time.Time
	HallNumber uint32
	Price      float64
	TotalSeats uint32
}

// ShowtimeService provisions showtimes and answers seat map queries.
// Provisioning inserts the showtime and its full seat grid in one
// transaction, so a showtime is never visible without its seats.
type ShowtimeService struct {
	DB        *sql.DB
	Showtimes ShowtimeStore
	Seats     SeatStore
	Movies    MovieStore
}

func NewShowtimeService(db *sql.DB, showtimes ShowtimeStore, seats SeatStore, movies MovieStore) *ShowtimeService {
	return &ShowtimeService{DB: db, Showtimes: showtimes, Seats: seats, Movies: movies}
}

// Create inserts a showtime for an existing movie together with its
// 100-seat grid. A zero TotalSeats falls back to the grid size. The
// movie check runs first so an unknown movie reports as a missing
// reference rather than a foreign key failure.
func (s *ShowtimeService) Create(ctx context.Context, in ShowtimeInput) (model.Showtime, error) {
	if _, err := s.Movies.GetByID(ctx, in.MovieID); err != nil {
		return model.Showtime{}, err
	}
	if in.TotalSeats == 0 {
		in.TotalSeats = defaultTotalSeats
	}
	st := model.Showtime{
		MovieID:    in.MovieID,
		StartTime:  in.StartTime.UTC(),
		HallNumber: in.HallNumber,
		Price:      in.Price,
		TotalSeats: in.TotalSeats,
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Showtime{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.Showtimes.CreateTx(ctx, tx, &st); err != nil {
		return model.Showtime{}, err
	}
	if err := s.Seats.CreateBulkTx(ctx, tx, seatGrid(st.ID)); err != nil {
		return model.Showtime{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Showtime{}, err
	}
	committed = true
	return st, nil
}

// Get returns a showtime by id.
func (s *ShowtimeService) Get(ctx context.Context, id uint64) (model.Showtime, error) {
	return s.Showtimes.GetByID(ctx, id)
}

// SeatMap returns every seat of a showtime. The showtime is checked
// first so an unknown id reports not-found instead of an empty grid.
func (s *ShowtimeService) SeatMap(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	if _, err := s.Showtimes.GetByID(ctx, showtimeID); err != nil {
		return nil, err
	}
	return s.Seats.ListByShowtime(ctx, showtimeID)
}

// AvailableSeats returns the unreserved seats of a showtime. An
// unknown showtime yields an empty slice, not an error. The result is
// a snapshot; bookings committed afterwards may invalidate it, and the
// booking path re-validates under row locks.
func (s *ShowtimeService) AvailableSeats(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	return s.Seats.ListAvailable(ctx, showtimeID)
}

// seatGrid builds the fixed grid for a showtime: rows A..J, seats 1..10.
func seatGrid(showtimeID uint64) []model.Seat {
	seats := make([]model.Seat, 0, len(gridRows)*gridSeatsPerRow)
	for _, row := range gridRows {
		for n := uint32(1); n <= gridSeatsPerRow; n++ {
			seats = append(seats, model.Seat{
				ShowtimeID: showtimeID,
				Row:        string(row),
				Number:     n,
			})
		}
	}
	return seats
}
