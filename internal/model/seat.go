package model

import "fmt"

// Seat mirrors a row of the `seats` table. (showtime_id, row, number)
// is unique. The IsReserved flag is flipped only by the reservation
// engine while holding a row lock on the seat; seats are created by the
// showtime provisioner and never deleted individually.
type Seat struct {
	ID         uint64 // seats.id
	ShowtimeID uint64 // seats.showtime_id
	Row        string // seats.row (A..J)
	Number     uint32 // seats.number (1..10)
	IsReserved bool   // seats.is_reserved
}

// Label returns the human-readable seat position, e.g. "A1".
func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}
