package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/movielab/movie-reservation/internal/model"
)

// ErrShowtimeNotFound is returned when a showtime lookup yields no rows.
var ErrShowtimeNotFound = errors.New("showtime not found")

// ShowtimeRepo provides persistence for showtimes. Creation happens
// only inside the provisioning transaction (CreateTx); after that a
// showtime is immutable.
type ShowtimeRepo struct{ DB *sql.DB }

func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo { return &ShowtimeRepo{DB: db} }

const showtimeCols = "id, movie_id, start_time, hall_number, price, total_seats"

// CreateTx inserts a showtime within the provisioning transaction and
// populates its generated ID. The caller commits or rolls back.
func (r *ShowtimeRepo) CreateTx(ctx context.Context, tx *sql.Tx, st *model.Showtime) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO showtimes (movie_id, start_time, hall_number, price, total_seats) VALUES (?,?,?,?,?)",
		st.MovieID, st.StartTime, st.HallNumber, st.Price, st.TotalSeats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)
	return nil
}

// GetByID fetches a showtime by id.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (model.Showtime, error) {
	var st model.Showtime
	err := r.DB.QueryRowContext(ctx, "SELECT "+showtimeCols+" FROM showtimes WHERE id=?", id).
		Scan(&st.ID, &st.MovieID, &st.StartTime, &st.HallNumber, &st.Price, &st.TotalSeats)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Showtime{}, ErrShowtimeNotFound
	}
	if err != nil {
		return model.Showtime{}, err
	}
	return st, nil
}

// ListByMovieBetween returns a movie's showtimes in [from, to) ordered
// by start time. Used by the daily schedule view.
func (r *ShowtimeRepo) ListByMovieBetween(ctx context.Context, movieID uint64, from, to time.Time) ([]model.Showtime, error) {
	const q = "SELECT " + showtimeCols + ` FROM showtimes
	           WHERE movie_id = ? AND start_time >= ? AND start_time < ?
	           ORDER BY start_time`
	rows, err := r.DB.QueryContext(ctx, q, movieID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	showtimes := make([]model.Showtime, 0)
	for rows.Next() {
		var st model.Showtime
		if err := rows.Scan(&st.ID, &st.MovieID, &st.StartTime, &st.HallNumber, &st.Price, &st.TotalSeats); err != nil {
			return nil, err
		}
		showtimes = append(showtimes, st)
	}
	return showtimes, rows.Err()
}
