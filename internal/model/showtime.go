package model

import "time"

// Showtime mirrors a row of the `showtimes` table. A showtime owns its
// seat grid and is immutable after creation; there is no reschedule
// operation.
//
// TotalSeats stores the nominal capacity supplied at creation time and
// feeds capacity-percentage reporting. It does NOT drive the seat grid:
// the grid is always the fixed 10x10 layout regardless of this value.
type Showtime struct {
	ID         uint64    // showtimes.id
	MovieID    uint64    // showtimes.movie_id
	StartTime  time.Time // showtimes.start_time (UTC)
	HallNumber uint32    // showtimes.hall_number
	Price      float64   // showtimes.price (DECIMAL(10,2))
	TotalSeats uint32    // showtimes.total_seats (nominal, default 100)
}
