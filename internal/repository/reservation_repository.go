package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/movielab/movie-reservation/internal/model"
)

// ErrReservationNotFound is returned when a reservation lookup yields
// no rows.
var ErrReservationNotFound = errors.New("reservation not found")

// ReservationRepo persists the reservation ledger. Confirmed rows are
// only ever written inside the booking transaction, after the seat
// rows they cover have been locked and validated.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// CreateBulkTx inserts one confirmed reservation row per seat inside
// the booking transaction and populates the generated IDs. MySQL
// assigns consecutive ids for a multi-row insert, so the first
// LastInsertId anchors the rest.
func (r *ReservationRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, reservations []model.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	query := "INSERT INTO reservations (user_id, showtime_id, seat_id, status) VALUES "
	args := make([]any, 0, len(reservations)*4)
	for i := range reservations {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		rv := &reservations[i]
		args = append(args, rv.UserID, rv.ShowtimeID, rv.SeatID, string(rv.Status))
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	first, err := res.LastInsertId()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range reservations {
		reservations[i].ID = uint64(first) + uint64(i)
		reservations[i].CreatedAt = now
	}
	return nil
}

// GetByIDTx locks a reservation row within the cancellation
// transaction and returns it.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error) {
	var (
		rv     model.Reservation
		status string
	)
	err := tx.QueryRowContext(ctx,
		"SELECT id, user_id, showtime_id, seat_id, status, created_at FROM reservations WHERE id = ? FOR UPDATE", id).
		Scan(&rv.ID, &rv.UserID, &rv.ShowtimeID, &rv.SeatID, &status, &rv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, translateLockErr(err)
	}
	rv.Status = model.ReservationStatus(status)
	return rv, nil
}

// SetStatusTx updates a reservation's status inside the caller's
// transaction.
func (r *ReservationRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus) error {
	res, err := tx.ExecContext(ctx, "UPDATE reservations SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists uint64
		gerr := tx.QueryRowContext(ctx, "SELECT id FROM reservations WHERE id = ?", id).Scan(&exists)
		if errors.Is(gerr, sql.ErrNoRows) {
			return ErrReservationNotFound
		}
	}
	return nil
}

// ListByUser returns a user's confirmed reservations with movie and
// seat context, newest showtime first. Cancelled rows stay in the table
// as an audit trail but are not listed. With upcomingOnly set, only
// showtimes that have not started yet are returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, upcomingOnly bool) ([]model.ReservationDetail, error) {
	query := `SELECT r.id, m.title, st.start_time, st.hall_number, s.` + "`row`" + `, s.number, r.status, r.created_at
	          FROM reservations r
	          JOIN showtimes st ON st.id = r.showtime_id
	          JOIN movies m ON m.id = st.movie_id
	          JOIN seats s ON s.id = r.seat_id
	          WHERE r.user_id = ? AND r.status = ?`
	args := []any{userID, string(model.ReservationConfirmed)}
	if upcomingOnly {
		query += " AND st.start_time > ?"
		args = append(args, time.Now().UTC())
	}
	query += " ORDER BY st.start_time DESC, r.id"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]model.ReservationDetail, 0)
	for rows.Next() {
		var (
			d      model.ReservationDetail
			status string
		)
		if err := rows.Scan(&d.ID, &d.MovieTitle, &d.Showtime, &d.HallNumber, &d.SeatRow, &d.SeatNumber, &status, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Status = model.ReservationStatus(status)
		details = append(details, d)
	}
	return details, rows.Err()
}

// Report aggregates confirmed reservations per showtime for the admin
// report: seats sold, revenue at the showtime's price, and occupancy
// against the declared capacity. Zero from/to values leave that bound
// open. Showtimes without a single confirmed reservation are omitted.
func (r *ReservationRepo) Report(ctx context.Context, from, to time.Time) ([]model.ReportRow, error) {
	query := `SELECT st.id, m.title, st.start_time, st.hall_number,
	                 COUNT(r.id) AS confirmed_seats,
	                 COUNT(r.id) * st.price AS revenue,
	                 COUNT(r.id) * 100.0 / st.total_seats AS occupancy_pct
	          FROM reservations r
	          JOIN showtimes st ON st.id = r.showtime_id
	          JOIN movies m ON m.id = st.movie_id
	          WHERE r.status = ?`
	args := []any{string(model.ReservationConfirmed)}
	if !from.IsZero() {
		query += " AND st.start_time >= ?"
		args = append(args, from)
	}
	if !to.IsZero() {
		query += " AND st.start_time < ?"
		args = append(args, to)
	}
	query += ` GROUP BY st.id, m.title, st.start_time, st.hall_number, st.price, st.total_seats
	           ORDER BY st.start_time`
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	report := make([]model.ReportRow, 0)
	for rows.Next() {
		var row model.ReportRow
		if err := rows.Scan(&row.ShowtimeID, &row.MovieTitle, &row.StartTime, &row.HallNumber,
			&row.ConfirmedSeats, &row.Revenue, &row.Occupancy); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
