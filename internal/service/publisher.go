// Package service publishes appointment events to RabbitMQ. Publish errors
// are logged and returned so callers can ignore them without interrupting
// the request.
package service

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/clinic-appointments/internal/queue"
)

// EventPublisher delivers appointment events.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AppointmentEvent) error
}

// NewEvent stamps a fresh event id and the current UTC time.
func NewEvent(typ, appointmentID, email, status string) queue.AppointmentEvent {
	return queue.AppointmentEvent{
		ID:            uuid.NewString(),
		Type:          typ,
		AppointmentID: appointmentID,
		Email:         email,
		Status:        status,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// AMQPPublisher dials the broker per publish, declares the durable
// appointment queue and sends a persistent JSON message.
type AMQPPublisher struct {
	URL string
}

// Publish sends ev to queue.AppointmentQueueName.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.AppointmentEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: dialContext(ctx, 2*time.Second)})
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

	if _, err := ch.QueueDeclare(
		queue.AppointmentQueueName, // name
		true,                       // durable
		false,                      // autoDelete
		false,                      // exclusive
		false,                      // noWait
		nil,                        // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.AppointmentQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// dialContext is amqp.DefaultDial with cancellation: the TCP dial stops when
// ctx is done, and the handshake deadline is the earlier of ctx's deadline
// and timeout. amqp clears the deadline once the connection is open.
func dialContext(ctx context.Context, timeout time.Duration) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		d := net.Dialer{Timeout: timeout}
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		deadline := time.Now().Add(timeout)
		if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
			deadline = dl
		}
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

// NopPublisher drops every event. It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.AppointmentEvent) error { return nil }
