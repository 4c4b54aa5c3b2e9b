// Package service contains the business rules of the reservation
// system. The reservation engine and showtime provisioner live here,
// between the HTTP handlers and the repositories, and own the
// transactions that keep seat state consistent under concurrency.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrPastShowtime rejects bookings for showtimes that have
	// already started.
	ErrPastShowtime = errors.New("showtime has already started")

	// ErrPastReservation rejects cancellation once the reservation's
	// showtime has started.
	ErrPastReservation = errors.New("cannot cancel a reservation for a past showtime")

	// ErrAlreadyCancelled rejects cancelling a reservation twice.
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")

	// ErrNotOwner rejects operations on another user's reservation.
	// There is no admin override on this path.
	ErrNotOwner = errors.New("reservation belongs to another user")

	// ErrNoSeats rejects booking requests with no seats in them.
	ErrNoSeats = errors.New("at least one seat is required")
)

// SeatConflictError reports seats that were already reserved when a
// booking tried to take them. Labels holds human-readable seat labels
// such as "A1", sorted in request order.
type SeatConflictError struct {
	Labels []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("Seats already reserved: %v", e.Labels)
}

// SeatsNotFoundError reports requested seat IDs that do not exist or
// do not belong to the requested showtime.
type SeatsNotFoundError struct {
	SeatIDs []uint64
}

func (e *SeatsNotFoundError) Error() string {
	return fmt.Sprintf("Seats not found for this showtime: %v", e.SeatIDs)
}
