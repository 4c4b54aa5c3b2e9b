// Package queue defines the message payloads exchanged over RabbitMQ
// together with the publisher and the background consumer.
package queue

// Queue names used for reservation lifecycle events. The routing key
// equals the queue name because messages go through the default
// exchange.
const (
	ReservationConfirmedQueue = "reservation.confirmed"
	ReservationCancelledQueue = "reservation.cancelled"
)

// ReservationConfirmedEvent is published after a booking transaction
// commits. It carries enough context for downstream consumers to log
// or notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationIDs []uint64 `json:"reservation_ids"`
	UserID         uint64   `json:"user_id"`
	ShowtimeID     uint64   `json:"showtime_id"`
	MovieTitle     string   `json:"movie_title"`
	StartsAt       string   `json:"starts_at"`
	HallNumber     uint32   `json:"hall_number"`
	SeatLabels     []string `json:"seats"`
	TotalPrice     float64  `json:"total_price"`
	ConfirmedAt    string   `json:"confirmed_at"`
}

// ReservationCancelledEvent is published after a cancellation commits
// and the seat has returned to the pool.
type ReservationCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	ShowtimeID    uint64 `json:"showtime_id"`
	SeatLabel     string `json:"seat"`
	CancelledAt   string `json:"cancelled_at"`
}
