package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends reservation lifecycle events to RabbitMQ. Publishing
// is best-effort: callers run it after their transaction has committed
// and may ignore the returned error, since the reservation itself is
// already durable in MySQL.
type Publisher struct {
	URL string
}

func NewPublisher(url string) *Publisher { return &Publisher{URL: url} }

// ReservationConfirmed publishes ev to the reservation.confirmed queue.
func (p *Publisher) ReservationConfirmed(ctx context.Context, ev ReservationConfirmedEvent) error {
	return p.publish(ctx, ReservationConfirmedQueue, ev)
}

// ReservationCancelled publishes ev to the reservation.cancelled queue.
func (p *Publisher) ReservationCancelled(ctx context.Context, ev ReservationCancelledEvent) error {
	return p.publish(ctx, ReservationCancelledQueue, ev)
}

// publish dials the broker, declares the durable queue and sends one
// persistent JSON message. A fresh connection per publish keeps the
// publisher free of shared state; booking volume is far below the
// level where that matters. Errors are logged and returned.
func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
