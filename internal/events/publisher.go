package events

import (
	"context"
	"time"

	"dastarkhan/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Order event types, used as routing keys on the orders exchange.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderPaid          = "order.paid"
	EventOrderArchived      = "order.archived"
)

// OrderEvent is the message emitted on every order mutation. Consumers
// treat it as a change notification and re-read the collection; the event
// itself carries only identifying fields.
type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   uuid.UUID `json:"orderId"`
	OrderType string    `json:"orderType"`
	Status    string    `json:"status"`
	At        time.Time `json:"at"`
}

// SoundEvent tells dashboards which notification sound to play.
type SoundEvent struct {
	Sound string    `json:"sound"`
	At    time.Time `json:"at"`
}

// Publisher emits order lifecycle events.
type Publisher interface {
	// OrderChanged publishes an order mutation event.
	OrderChanged(ctx context.Context, eventType string, order *model.Order) error

	// Sound publishes a notification sound to all dashboards.
	Sound(ctx context.Context, sound string) error
}

// publisher implements Publisher over the AMQP client.
type publisher struct {
	client *Client
	logger zerolog.Logger
}

// NewPublisher creates an AMQP-backed publisher.
func NewPublisher(client *Client, logger zerolog.Logger) Publisher {
	return &publisher{
		client: client,
		logger: logger.With().Str("component", "order-publisher").Logger(),
	}
}

// OrderChanged publishes an order mutation event.
func (p *publisher) OrderChanged(ctx context.Context, eventType string, order *model.Order) error {
	event := OrderEvent{
		Type:      eventType,
		OrderID:   order.ID,
		OrderType: order.OrderType,
		Status:    order.Status,
		At:        time.Now().UTC(),
	}

	if err := p.client.PublishJSON(ctx, OrdersExchange, eventType, event); err != nil {
		p.logger.Error().
			Err(err).
			Str("event_type", eventType).
			Str("order_id", order.ID.String()).
			Msg("failed to publish order event")
		return err
	}

	p.logger.Debug().
		Str("event_type", eventType).
		Str("order_id", order.ID.String()).
		Msg("order event published")

	return nil
}

// Sound publishes a notification sound to all dashboards.
func (p *publisher) Sound(ctx context.Context, sound string) error {
	event := SoundEvent{Sound: sound, At: time.Now().UTC()}
	if err := p.client.PublishJSON(ctx, NotificationsExchange, "", event); err != nil {
		p.logger.Error().Err(err).Str("sound", sound).Msg("failed to publish sound event")
		return err
	}
	return nil
}

// NopPublisher discards all events. Used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) OrderChanged(context.Context, string, *model.Order) error { return nil }
func (NopPublisher) Sound(context.Context, string) error                      { return nil }
