// Package notify publishes new-order notifications to a RabbitMQ queue so
// external channels (kitchen displays, sound boxes) can react without
// polling the console.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"orderdesk/internal/service/intake"
)

// message is the wire form of one notification.
type message struct {
	OrderID      string `json:"order_id"`
	Number       int    `json:"number"`
	CustomerName string `json:"customer_name"`
	Total        string `json:"total"`
	Sound        bool   `json:"sound"`
	SentAt       string `json:"sent_at"`
}

// Publisher sends intake notifications to a durable queue with publisher
// confirms. It implements intake.Notifier.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	sound bool
	now   func() time.Time

	acks <-chan amqp.Confirmation
	mu   sync.Mutex
}

// NewPublisher dials the broker and declares the notification queue.
// An empty URL returns (nil, nil) so the worker runs without the queue
// channel wired.
func NewPublisher(url, queue string, soundEnabled bool) (*Publisher, error) {
	if url == "" || queue == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	acks := ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	return &Publisher{
		conn:  conn,
		ch:    ch,
		queue: queue,
		sound: soundEnabled,
		now:   time.Now,
		acks:  acks,
	}, nil
}

// Notify publishes one notification and waits for the broker's confirm.
func (p *Publisher) Notify(ctx context.Context, n intake.Notification) error {
	body, err := json.Marshal(payload(n, p.sound, p.now()))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    p.now(),
			Body:         body,
		},
	); err != nil {
		return err
	}

	select {
	case conf := <-p.acks:
		if conf.Ack {
			return nil
		}
		return errors.New("publish nack from broker")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ping reports whether the connection is still up.
func (p *Publisher) Ping() error {
	if p == nil || p.conn == nil || p.conn.IsClosed() {
		return errors.New("amqp connection is closed")
	}
	return nil
}

// Close tears the channel and connection down.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func payload(n intake.Notification, sound bool, at time.Time) message {
	return message{
		OrderID:      n.OrderID,
		Number:       n.Number,
		CustomerName: n.CustomerName,
		Total:        n.Total.StringFixed(2),
		Sound:        sound,
		SentAt:       at.UTC().Format(time.RFC3339),
	}
}
