package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movielab/movie-reservation/internal/model"
)

func TestCreateBulkTxAssignsConsecutiveIDs(t *testing.T) {
	db, dbmock := newMockDB(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, dbmock)

	dbmock.ExpectExec(regexp.QuoteMeta("INSERT INTO reservations (user_id, showtime_id, seat_id, status) VALUES (?, ?, ?, ?),(?, ?, ?, ?)")).
		WithArgs(42, 7, 11, "confirmed", 42, 7, 12, "confirmed").
		WillReturnResult(sqlmock.NewResult(200, 2))

	reservations := []model.Reservation{
		{UserID: 42, ShowtimeID: 7, SeatID: 11, Status: model.ReservationConfirmed},
		{UserID: 42, ShowtimeID: 7, SeatID: 12, Status: model.ReservationConfirmed},
	}
	err := repo.CreateBulkTx(context.Background(), tx, reservations)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), reservations[0].ID)
	assert.Equal(t, uint64(201), reservations[1].ID)
	assert.False(t, reservations[0].CreatedAt.IsZero())
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestGetByIDTxLocksRow(t *testing.T) {
	db, dbmock := newMockDB(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, dbmock)

	created := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	dbmock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, showtime_id, seat_id, status, created_at FROM reservations WHERE id = ? FOR UPDATE")).
		WithArgs(55).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "showtime_id", "seat_id", "status", "created_at"}).
			AddRow(55, 42, 7, 11, "confirmed", created))

	rv, err := repo.GetByIDTx(context.Background(), tx, 55)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationConfirmed, rv.Status)
	assert.Equal(t, uint64(42), rv.UserID)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestGetByIDTxNotFound(t *testing.T) {
	db, dbmock := newMockDB(t)
	repo := NewReservationRepo(db)
	tx := beginTx(t, db, dbmock)

	dbmock.ExpectQuery("FOR UPDATE").WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "showtime_id", "seat_id", "status", "created_at"}))

	_, err := repo.GetByIDTx(context.Background(), tx, 99)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestListByUserUpcomingOnlyFilters(t *testing.T) {
	db, dbmock := newMockDB(t)
	repo := NewReservationRepo(db)

	showtime := time.Now().UTC().Add(3 * time.Hour)
	dbmock.ExpectQuery("WHERE r.user_id = \\? AND r.status = \\? AND st.start_time > \\?").
		WithArgs(42, "confirmed", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "start_time", "hall_number", "row", "number", "status", "created_at"}).
			AddRow(55, "Heat", showtime, 1, "A", 1, "confirmed", time.Now().UTC()))

	details, err := repo.ListByUser(context.Background(), 42, true)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "Heat", details[0].MovieTitle)
	assert.Equal(t, "A", details[0].SeatRow)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestListByUserOnlyConfirmed(t *testing.T) {
	db, dbmock := newMockDB(t)
	repo := NewReservationRepo(db)

	dbmock.ExpectQuery("WHERE r.user_id = \\? AND r.status = \\? ORDER BY").
		WithArgs(42, "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "start_time", "hall_number", "row", "number", "status", "created_at"}).
			AddRow(55, "Heat", time.Now().UTC(), 1, "A", 1, "confirmed", time.Now().UTC()))

	details, err := repo.ListByUser(context.Background(), 42, false)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, model.ReservationConfirmed, details[0].Status)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestReportAggregatesConfirmed(t *testing.T) {
	db, dbmock := newMockDB(t)
	repo := NewReservationRepo(db)

	start := time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC)
	dbmock.ExpectQuery("GROUP BY st.id").
		WithArgs("confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "start_time", "hall_number", "confirmed_seats", "revenue", "occupancy_pct"}).
			AddRow(7, "Heat", start, 1, 40, 500.0, 40.0))

	rows, err := repo.Report(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint32(40), rows[0].ConfirmedSeats)
	assert.InDelta(t, 500.0, rows[0].Revenue, 1e-9)
	assert.InDelta(t, 40.0, rows[0].Occupancy, 1e-9)
}

func TestReportBoundsShowtimeRange(t *testing.T) {
	db, dbmock := newMockDB(t)
	repo := NewReservationRepo(db)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	dbmock.ExpectQuery("AND st.start_time >= \\? AND st.start_time < \\?").
		WithArgs("confirmed", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "start_time", "hall_number", "confirmed_seats", "revenue", "occupancy_pct"}))

	rows, err := repo.Report(context.Background(), from, to)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}
