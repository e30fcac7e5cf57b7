package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Exchange and queue topology for order updates. Order events go to a
// topic exchange keyed by event type; notification sounds fan out to every
// connected dashboard.
const (
	OrdersExchange        = "orders.topic"
	NotificationsExchange = "notifications.fanout"
	TrackerQueue          = "orders.tracker.q"
)

// Client wraps an AMQP connection and channel.
type Client struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger zerolog.Logger
}

// Dial connects to RabbitMQ and opens a channel.
func Dial(url string, logger zerolog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return &Client{
		conn:   conn,
		ch:     ch,
		logger: logger.With().Str("component", "rabbitmq").Logger(),
	}, nil
}

// Close closes the channel and connection.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// DeclareTopology declares the exchanges and the tracker queue and binds
// the queue to every order event.
func (c *Client) DeclareTopology() error {
	if err := c.ch.ExchangeDeclare(OrdersExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare orders exchange: %w", err)
	}
	if err := c.ch.ExchangeDeclare(NotificationsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare notifications exchange: %w", err)
	}
	if _, err := c.ch.QueueDeclare(TrackerQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare tracker queue: %w", err)
	}
	if err := c.ch.QueueBind(TrackerQueue, "order.*", OrdersExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind tracker queue: %w", err)
	}
	return nil
}

// PublishJSON publishes v as a persistent JSON message.
func (c *Client) PublishJSON(ctx context.Context, exchange, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = c.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Consume starts consuming a queue with the given prefetch.
func (c *Client) Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error) {
	if err := c.ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := c.ch.Consume(queue, consumer, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to consume %s: %w", queue, err)
	}

	return deliveries, nil
}
