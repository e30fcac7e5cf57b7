package events

import (
	"context"
	"sync"
	"time"

	"dastarkhan/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Notification sounds. Delivery orders ring differently from kitchen
// orders so staff can tell them apart without looking.
const (
	SoundDelivery = "delivery"
	SoundKitchen  = "kitchen"
)

// FreshnessWindow is how young the newest pending order must be for a
// refresh cycle to ring the notification.
const FreshnessWindow = 10 * time.Second

// ViewAll is the passthrough status filter.
const ViewAll = "all"

// Tracker maintains a live mirror of the active order collection. Every
// change notification replaces the mirror wholesale; there is no
// incremental diffing.
type Tracker struct {
	mu     sync.RWMutex
	orders []model.Order

	now    func() time.Time
	notify func(ctx context.Context, sound string) error
	logger zerolog.Logger
}

// NewTracker creates a tracker that rings through notify.
func NewTracker(notify func(ctx context.Context, sound string) error, logger zerolog.Logger) *Tracker {
	return &Tracker{
		now:    time.Now,
		notify: notify,
		logger: logger.With().Str("component", "order-tracker").Logger(),
	}
}

// WithClock replaces the tracker's clock. Tests use this to pin time.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Apply replaces the mirror with a fresh snapshot (expected newest first)
// and rings at most one notification: when the freshest pending order is
// younger than FreshnessWindow, the sound matching its type plays.
func (t *Tracker) Apply(ctx context.Context, orders []model.Order) {
	t.mu.Lock()
	t.orders = orders
	t.mu.Unlock()

	var freshest *model.Order
	for i := range orders {
		if orders[i].Status != model.StatusPending {
			continue
		}
		if freshest == nil || orders[i].CreatedAt.After(freshest.CreatedAt) {
			freshest = &orders[i]
		}
	}
	if freshest == nil {
		return
	}

	age := t.now().Sub(freshest.CreatedAt)
	if age < 0 || age >= FreshnessWindow {
		return
	}

	sound := SoundKitchen
	if freshest.OrderType == model.OrderTypeDelivery {
		sound = SoundDelivery
	}

	if err := t.notify(ctx, sound); err != nil {
		t.logger.Error().Err(err).Str("sound", sound).Msg("failed to ring notification")
	}
}

// View returns the orders matching the status filter, preserving the
// mirror's newest-first ordering. ViewAll (or empty) passes everything
// through.
func (t *Tracker) View(status string) []model.Order {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if status == "" || status == ViewAll {
		out := make([]model.Order, len(t.orders))
		copy(out, t.orders)
		return out
	}

	out := make([]model.Order, 0, len(t.orders))
	for _, o := range t.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

// Run consumes change notifications until ctx is cancelled or the
// delivery channel closes. Each message triggers a wholesale refresh from
// source; refresh failures are logged and the cycle skipped. Reconnection
// after a closed channel is the AMQP client's concern, not the tracker's.
func (t *Tracker) Run(ctx context.Context, deliveries <-chan amqp.Delivery, source func(ctx context.Context) ([]model.Order, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				t.logger.Error().Msg("delivery channel closed")
				return
			}

			orders, err := source(ctx)
			if err != nil {
				t.logger.Error().Err(err).Msg("failed to refresh order mirror")
				_ = d.Ack(false)
				continue
			}

			t.Apply(ctx, orders)
			_ = d.Ack(false)
		}
	}
}

// Seed performs the initial refresh so the dashboard is populated before
// the first change notification arrives.
func (t *Tracker) Seed(ctx context.Context, source func(ctx context.Context) ([]model.Order, error)) {
	orders, err := source(ctx)
	if err != nil {
		t.logger.Error().Err(err).Msg("failed to seed order mirror")
		return
	}

	t.mu.Lock()
	t.orders = orders
	t.mu.Unlock()
}
