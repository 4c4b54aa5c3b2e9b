package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/movielab/movie-reservation/internal/model"
	"github.com/movielab/movie-reservation/internal/queue"
)

// ShowtimeStore is the slice of showtime persistence the services need.
type ShowtimeStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, st *model.Showtime) error
	GetByID(ctx context.Context, id uint64) (model.Showtime, error)
}

// SeatStore is the slice of seat persistence the services need. The
// Tx methods operate under the caller's transaction; LockByIDsTx and
// LockByIDTx must acquire exclusive row locks that survive until that
// transaction ends.
type SeatStore interface {
	CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.Seat) error
	LockByIDsTx(ctx context.Context, tx *sql.Tx, showtimeID uint64, seatIDs []uint64) ([]model.Seat, error)
	LockByIDTx(ctx context.Context, tx *sql.Tx, seatID uint64) (model.Seat, error)
	SetReservedTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, reserved bool) error
	ListByShowtime(ctx context.Context, showtimeID uint64) ([]model.Seat, error)
	ListAvailable(ctx context.Context, showtimeID uint64) ([]model.Seat, error)
}

// ReservationStore is the slice of reservation persistence the engine
// needs.
type ReservationStore interface {
	CreateBulkTx(ctx context.Context, tx *sql.Tx, reservations []model.Reservation) error
	GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Reservation, error)
	SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.ReservationStatus) error
	ListByUser(ctx context.Context, userID uint64, upcomingOnly bool) ([]model.ReservationDetail, error)
}

// MovieStore is the slice of movie persistence the services need.
type MovieStore interface {
	GetByID(ctx context.Context, id uint64) (model.Movie, error)
}

// EventPublisher emits reservation lifecycle events after commit.
// Implementations may fail without affecting the reservation itself.
type EventPublisher interface {
	ReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
	ReservationCancelled(ctx context.Context, ev queue.ReservationCancelledEvent) error
}

// BookingResult is returned from a successful booking. It carries the
// reservation rows written in the transaction plus the showtime and
// seat context needed to build the response and the confirmed event.
type BookingResult struct {
	Reservations []model.Reservation
	Seats        []model.Seat
	Showtime     model.Showtime
	Movie        model.Movie
	TotalPrice   float64
}

// ReservationService is the booking engine. Book and Cancel each run
// a single transaction that locks the affected seat rows before
// validating them, so two requests racing for the same seat serialize
// at the database and exactly one wins. Validation failures roll the
// whole transaction back; a multi-seat booking either takes every
// requested seat or none.
type ReservationService struct {
	DB           *sql.DB
	Showtimes    ShowtimeStore
	Seats        SeatStore
	Reservations ReservationStore
	Movies       MovieStore
	Events       EventPublisher

	now func() time.Time
}

func NewReservationService(db *sql.DB, showtimes ShowtimeStore, seats SeatStore, reservations ReservationStore, movies MovieStore, events EventPublisher) *ReservationService {
	return &ReservationService{
		DB:           db,
		Showtimes:    showtimes,
		Seats:        seats,
		Reservations: reservations,
		Movies:       movies,
		Events:       events,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Book reserves the given seats of a showtime for the user. Checks run
// in a fixed order so the caller always gets the most specific error:
// the showtime must exist and lie in the future, every requested seat
// must belong to it, and none may already be reserved. Seat rows are
// locked before the reserved check, so the check's result holds until
// commit. Duplicate seat IDs in the request are collapsed.
func (s *ReservationService) Book(ctx context.Context, userID, showtimeID uint64, seatIDs []uint64) (BookingResult, error) {
	seatIDs = dedupe(seatIDs)
	if len(seatIDs) == 0 {
		return BookingResult{}, ErrNoSeats
	}

	st, err := s.Showtimes.GetByID(ctx, showtimeID)
	if err != nil {
		return BookingResult{}, err
	}
	if !st.StartTime.After(s.now()) {
		return BookingResult{}, ErrPastShowtime
	}
	movie, err := s.Movies.GetByID(ctx, st.MovieID)
	if err != nil {
		return BookingResult{}, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return BookingResult{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	locked, err := s.Seats.LockByIDsTx(ctx, tx, showtimeID, seatIDs)
	if err != nil {
		return BookingResult{}, err
	}
	if len(locked) != len(seatIDs) {
		found := make(map[uint64]struct{}, len(locked))
		for _, seat := range locked {
			found[seat.ID] = struct{}{}
		}
		missing := make([]uint64, 0, len(seatIDs)-len(locked))
		for _, id := range seatIDs {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		return BookingResult{}, &SeatsNotFoundError{SeatIDs: missing}
	}

	var taken []string
	for _, seat := range locked {
		if seat.IsReserved {
			taken = append(taken, seat.Label())
		}
	}
	if len(taken) > 0 {
		return BookingResult{}, &SeatConflictError{Labels: taken}
	}

	if err := s.Seats.SetReservedTx(ctx, tx, seatIDs, true); err != nil {
		return BookingResult{}, err
	}
	reservations := make([]model.Reservation, 0, len(locked))
	for _, seat := range locked {
		reservations = append(reservations, model.Reservation{
			UserID:     userID,
			ShowtimeID: showtimeID,
			SeatID:     seat.ID,
			Status:     model.ReservationConfirmed,
		})
	}
	if err := s.Reservations.CreateBulkTx(ctx, tx, reservations); err != nil {
		return BookingResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return BookingResult{}, err
	}
	committed = true

	result := BookingResult{
		Reservations: reservations,
		Seats:        locked,
		Showtime:     st,
		Movie:        movie,
		TotalPrice:   st.Price * float64(len(locked)),
	}
	s.publishConfirmed(ctx, result)
	return result, nil
}

// Cancel voids a confirmed reservation and returns its seat to the
// pool. Only the owner may cancel, admins included, and only while the
// showtime has not started. The reservation row stays behind with
// status cancelled.
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID uint64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rv, err := s.Reservations.GetByIDTx(ctx, tx, reservationID)
	if err != nil {
		return err
	}
	if rv.UserID != userID {
		return ErrNotOwner
	}
	st, err := s.Showtimes.GetByID(ctx, rv.ShowtimeID)
	if err != nil {
		return err
	}
	if !st.StartTime.After(s.now()) {
		return ErrPastReservation
	}
	if rv.Status != model.ReservationConfirmed {
		return ErrAlreadyCancelled
	}

	seat, err := s.Seats.LockByIDTx(ctx, tx, rv.SeatID)
	if err != nil {
		return err
	}
	if err := s.Reservations.SetStatusTx(ctx, tx, rv.ID, model.ReservationCancelled); err != nil {
		return err
	}
	if err := s.Seats.SetReservedTx(ctx, tx, []uint64{seat.ID}, false); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	if s.Events != nil {
		ev := queue.ReservationCancelledEvent{
			ReservationID: rv.ID,
			UserID:        rv.UserID,
			ShowtimeID:    rv.ShowtimeID,
			SeatLabel:     seat.Label(),
			CancelledAt:   s.now().Format(time.RFC3339),
		}
		if err := s.Events.ReservationCancelled(ctx, ev); err != nil {
			log.Printf("reservation: publish cancelled event failed: %v", err)
		}
	}
	return nil
}

// ListForUser returns the user's confirmed reservations, optionally
// restricted to showtimes that have not started yet.
func (s *ReservationService) ListForUser(ctx context.Context, userID uint64, upcomingOnly bool) ([]model.ReservationDetail, error) {
	return s.Reservations.ListByUser(ctx, userID, upcomingOnly)
}

func (s *ReservationService) publishConfirmed(ctx context.Context, res BookingResult) {
	if s.Events == nil {
		return
	}
	ids := make([]uint64, 0, len(res.Reservations))
	for _, rv := range res.Reservations {
		ids = append(ids, rv.ID)
	}
	labels := make([]string, 0, len(res.Seats))
	for _, seat := range res.Seats {
		labels = append(labels, seat.Label())
	}
	ev := queue.ReservationConfirmedEvent{
		ReservationIDs: ids,
		UserID:         userIDOf(res.Reservations),
		ShowtimeID:     res.Showtime.ID,
		MovieTitle:     res.Movie.Title,
		StartsAt:       res.Showtime.StartTime.Format(time.RFC3339),
		HallNumber:     res.Showtime.HallNumber,
		SeatLabels:     labels,
		TotalPrice:     res.TotalPrice,
		ConfirmedAt:    s.now().Format(time.RFC3339),
	}
	if err := s.Events.ReservationConfirmed(ctx, ev); err != nil {
		log.Printf("reservation: publish confirmed event failed: %v", err)
	}
}

func userIDOf(reservations []model.Reservation) uint64 {
	if len(reservations) == 0 {
		return 0
	}
	return reservations[0].UserID
}

// dedupe collapses duplicate seat IDs while preserving request order.
// Invalid IDs (including zero) are kept so they surface as unresolved
// seats rather than vanishing from the request.
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
