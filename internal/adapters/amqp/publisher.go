// Package amqp publishes booking events to RabbitMQ.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"palmnazi/internal/adapters/observability"
	"palmnazi/internal/domain"
)

const BookingCreatedQueue = "booking.created"

// DefaultTimeout bounds a whole publish, dial and handshake included.
const DefaultTimeout = 3 * time.Second

// Publisher opens a connection per publish; booking volume is low and it
// keeps a broker outage from leaving a half-dead channel around.
type Publisher struct {
	url     string
	queue   string
	timeout time.Duration
	dial    func(url string, timeout time.Duration) (*amqp.Connection, error)
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, queue: BookingCreatedQueue, timeout: DefaultTimeout, dial: dialTimeout}
}

// dialTimeout is amqp.Dial with the TCP connect and AMQP handshake capped at d.
func dialTimeout(url string, d time.Duration) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(d),
	})
}

func (p *Publisher) PublishBookingCreated(ctx context.Context, ev domain.BookingEvent) error {
	msg, err := publishing(ev, time.Now())
	if err != nil {
		return err
	}
	start := time.Now()
	err = p.publish(ctx, msg)
	observability.ObserveExternal("amqp", "publish", observability.StatusOf(err), time.Since(start))
	return err
}

func (p *Publisher) publish(ctx context.Context, msg amqp.Publishing) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	dl, _ := ctx.Deadline()
	budget := time.Until(dl)
	if budget <= 0 {
		return fmt.Errorf("amqp dial: %w", context.DeadlineExceeded)
	}

	conn, err := p.dial(p.url, budget)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp declare %s: %w", p.queue, err)
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

func publishing(ev domain.BookingEvent, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.BookingID,
		Type:         BookingCreatedQueue,
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}

// Noop drops events; used when no broker is configured.
type Noop struct{}

func (Noop) PublishBookingCreated(context.Context, domain.BookingEvent) error { return nil }
