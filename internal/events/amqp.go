package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vytor/wordjourney/internal/logger"
	"github.com/vytor/wordjourney/internal/models"
)

// Publisher is the part of an AMQP channel the remote tier needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPStore syncs events to a durable RabbitMQ queue for remote analytics.
type AMQPStore struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    Publisher
	queue string
}

// DialAMQP connects to rawURL and declares queue.
func DialAMQP(rawURL, queue string) (*AMQPStore, error) {
	conn, err := amqp.Dial(rawURL)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-message-ttl": int32(24 * 60 * 60 * 1000)},
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}

	logger.Default().WithPrefix("events").Info("connected to RabbitMQ at %s, queue %s", redactURL(rawURL), queue)
	return &AMQPStore{conn: conn, ch: ch, queue: queue}, nil
}

// NewAMQPStore publishes through an existing channel.
func NewAMQPStore(ch Publisher, queue string) *AMQPStore {
	return &AMQPStore{ch: ch, queue: queue}
}

func (s *AMQPStore) Save(ctx context.Context, ev models.Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil && s.conn.IsClosed() {
		return fmt.Errorf("amqp connection closed")
	}
	return s.ch.PublishWithContext(ctx, "", s.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.Timestamp,
		Type:         ev.Name,
		Body:         body,
	})
}

func (s *AMQPStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid-url"
	}
	return u.Redacted()
}
