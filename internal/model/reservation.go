package model

import "time"

// ReservationStatus enumerates the lifecycle states of a reservation.
// The string values are stored verbatim in the reservations.status
// column and serialized in API responses, so they must never change.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationCancelled:
		return true
	}
	return false
}

// Reservation mirrors a row of the `reservations` table. Each
// reservation covers exactly one seat; a multi-seat booking produces
// one row per seat, committed atomically. Cancelled reservations are
// retained as an audit trail, so a seat may accumulate many cancelled
// rows over time but at most one confirmed row at any instant.
type Reservation struct {
	ID         uint64            // reservations.id
	UserID     uint64            // reservations.user_id
	ShowtimeID uint64            // reservations.showtime_id
	SeatID     uint64            // reservations.seat_id
	Status     ReservationStatus // reservations.status
	CreatedAt  time.Time         // reservations.created_at
}

// ReportRow is one line of the admin reservation report: confirmed
// bookings and revenue for a single showtime. Occupancy is the share
// of the showtime's declared capacity that is booked, in percent.
type ReportRow struct {
	ShowtimeID     uint64    `json:"showtime_id"`
	MovieTitle     string    `json:"movie_title"`
	StartTime      time.Time `json:"start_time"`
	HallNumber     uint32    `json:"hall_number"`
	ConfirmedSeats uint32    `json:"confirmed_seats"`
	Revenue        float64   `json:"revenue"`
	Occupancy      float64   `json:"occupancy_pct"`
}

// ReservationDetail is the read model returned when listing a user's
// reservations. It joins in movie and seat context for display.
type ReservationDetail struct {
	ID         uint64            `json:"id"`
	MovieTitle string            `json:"movie_title"`
	Showtime   time.Time         `json:"showtime"`
	HallNumber uint32            `json:"hall_number"`
	SeatRow    string            `json:"seat_row"`
	SeatNumber uint32            `json:"seat_number"`
	Status     ReservationStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}
