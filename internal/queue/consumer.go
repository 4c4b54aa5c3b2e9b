package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const reservationLogFile = "reservation.log"

// StartReservationConsumer connects to RabbitMQ, declares both
// reservation queues and consumes them, appending one line per event
// to logs/reservation.log. It runs a reconnect loop with capped
// exponential backoff and never returns under normal operation, so it
// is meant to be launched in its own goroutine. Malformed messages are
// rejected without requeue to avoid tight redelivery loops.
func StartReservationConsumer(url string) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
			_ = conn.Close()
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("reservation-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{ReservationConfirmedQueue, ReservationCancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	confirmed, err := ch.Consume(ReservationConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ReservationConfirmedQueue, err)
	}
	cancelled, err := ch.Consume(ReservationCancelledQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ReservationCancelledQueue, err)
	}

	for {
		select {
		case d, ok := <-confirmed:
			if !ok {
				return errors.New("confirmed deliveries channel closed")
			}
			handle(d, handleConfirmed)
		case d, ok := <-cancelled:
			if !ok {
				return errors.New("cancelled deliveries channel closed")
			}
			handle(d, handleCancelled)
		}
	}
}

func handle(d amqp.Delivery, fn func([]byte) error) {
	if err := fn(d.Body); err != nil {
		log.Printf("reservation-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func handleConfirmed(body []byte) error {
	var ev ReservationConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	seats := "[]"
	if len(ev.SeatLabels) > 0 {
		seats = fmt.Sprintf("[%s]", strings.Join(ev.SeatLabels, ","))
	}
	line := fmt.Sprintf("[%s] Reservation confirmed | user_id=%d | showtime_id=%d | movie=%q | hall=%d | seats=%s | total=%.2f\n",
		ev.ConfirmedAt, ev.UserID, ev.ShowtimeID, ev.MovieTitle, ev.HallNumber, seats, ev.TotalPrice)
	return appendLogLine(line)
}

func handleCancelled(body []byte) error {
	var ev ReservationCancelledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%s] Reservation cancelled | reservation_id=%d | user_id=%d | showtime_id=%d | seat=%s\n",
		ev.CancelledAt, ev.ReservationID, ev.UserID, ev.ShowtimeID, ev.SeatLabel)
	return appendLogLine(line)
}

func appendLogLine(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", reservationLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
