package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/movielab/movie-reservation/internal/model"
)

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// SeatRepo provides persistence for the per-showtime seat grid. The
// is_reserved flag is mutated exclusively through SetReservedTx while
// the caller holds row locks obtained via LockByIDsTx or LockByIDTx;
// this acquire-before-check discipline is what prevents double-booking.
type SeatRepo struct{ DB *sql.DB }

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{DB: db} }

const seatCols = "id, showtime_id, `row`, number, is_reserved"

// CreateBulkTx inserts all seats of a showtime's grid in a single
// statement inside the provisioning transaction. Passing an empty
// slice has no effect and returns nil.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := "INSERT INTO seats (showtime_id, `row`, number, is_reserved) VALUES "
	args := make([]any, 0, len(seats)*4)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, s.ShowtimeID, s.Row, s.Number, s.IsReserved)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// LockByIDsTx acquires exclusive row locks on the given seats of one
// showtime and returns their current state. Rows are locked in id
// order so concurrent multi-seat bookings acquire locks in a
// consistent order. Seats that do not exist, or belong to a different
// showtime, are simply absent from the result; the caller compares
// lengths to detect them. The locks are held until the surrounding
// transaction commits or rolls back.
func (r *SeatRepo) LockByIDsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error) {
	if len(seatIDs) == 0 {
		return []model.Seat{}, nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]any, 0, len(seatIDs)+1)
	args = append(args, showtimeID)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := "SELECT " + seatCols + " FROM seats WHERE showtime_id = ? AND id IN (" +
		strings.Join(placeholders, ",") + ") ORDER BY id FOR UPDATE"
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateLockErr(err)
	}
	defer rows.Close()
	seats := make([]model.Seat, 0, len(seatIDs))
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.Row, &s.Number, &s.IsReserved); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, translateLockErr(err)
	}
	return seats, nil
}

// LockByIDTx locks a single seat row and returns it. Used on the
// cancellation path to serialize against concurrent bookings of the
// same seat.
func (r *SeatRepo) LockByIDTx(ctx context.Context, tx *sql.Tx, seatID uint64) (model.Seat, error) {
	var s model.Seat
	err := tx.QueryRowContext(ctx,
		"SELECT "+seatCols+" FROM seats WHERE id = ? FOR UPDATE", seatID).
		Scan(&s.ID, &s.ShowtimeID, &s.Row, &s.Number, &s.IsReserved)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Seat{}, ErrSeatNotFound
	}
	if err != nil {
		return model.Seat{}, translateLockErr(err)
	}
	return s, nil
}

// SetReservedTx flips the is_reserved flag of the given seats. The
// caller must already hold row locks on them within tx.
func (r *SeatRepo) SetReservedTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, reserved bool) error {
	if len(seatIDs) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(seatIDs))
	args := make([]any, 0, len(seatIDs)+1)
	args = append(args, reserved)
	for _, id := range seatIDs {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}
	query := "UPDATE seats SET is_reserved = ? WHERE id IN (" + strings.Join(placeholders, ",") + ")"
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByShowtime returns every seat of a showtime ordered by row and
// number. An unknown showtime yields an empty slice, not an error.
func (r *SeatRepo) ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	return r.list(ctx, "SELECT "+seatCols+" FROM seats WHERE showtime_id = ? ORDER BY `row`, number", showtimeID)
}

// ListAvailable returns the unreserved seats of a showtime. This is
// the read side of availability: no locking, possibly stale relative
// to in-flight bookings. Correctness does not depend on it because the
// reservation engine re-validates under lock.
func (r *SeatRepo) ListAvailable(ctx context.Context, showtimeID uint64) ([]model.Seat, error) {
	return r.list(ctx, "SELECT "+seatCols+" FROM seats WHERE showtime_id = ? AND is_reserved = FALSE ORDER BY `row`, number", showtimeID)
}

// CountAvailable returns the number of unreserved seats of a showtime.
func (r *SeatRepo) CountAvailable(ctx context.Context, showtimeID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM seats WHERE showtime_id = ? AND is_reserved = FALSE", showtimeID).Scan(&n)
	return n, err
}

func (r *SeatRepo) list(ctx context.Context, query string, showtimeID uint64) ([]model.Seat, error) {
	rows, err := r.DB.QueryContext(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.ShowtimeID, &s.Row, &s.Number, &s.IsReserved); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
