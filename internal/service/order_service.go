package service

import (
	"context"
	"fmt"
	"time"

	"dastarkhan/internal/events"
	"dastarkhan/internal/model"
	"dastarkhan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	menuRepo     repository.MenuRepository
	settingsRepo repository.SettingsRepository
	deviceRepo   repository.DeviceRepository
	publisher    events.Publisher
	logger       zerolog.Logger
	now          func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	settingsRepo repository.SettingsRepository,
	deviceRepo repository.DeviceRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		menuRepo:     menuRepo,
		settingsRepo: settingsRepo,
		deviceRepo:   deviceRepo,
		publisher:    publisher,
		logger:       logger.With().Str("service", "order").Logger(),
		now:          time.Now,
	}
}

// Create checks out a cart into a new order. Item names and prices are
// snapshotted from the catalogue at this moment; servings counters are
// decremented inside the same transaction that writes the order, so a
// refused decrement rolls everything back.
func (s *orderService) Create(ctx context.Context, req *model.OrderRequest, deviceID string) (*model.Order, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	if deviceID != "" {
		blocked, err := s.deviceRepo.IsBlocked(ctx, deviceID)
		if err != nil {
			s.logger.Error().Err(err).Str("device_id", deviceID).Msg("failed to check device blocklist")
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		if blocked {
			s.logger.Warn().Str("device_id", deviceID).Msg("blocked device attempted checkout")
			return nil, model.ErrDeviceBlocked
		}
	}

	itemIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		itemIDs[i] = item.MenuItemID
	}

	menuItems, err := s.menuRepo.GetByIDs(ctx, itemIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve menu items")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	byID := make(map[string]model.MenuItem, len(menuItems))
	for _, item := range menuItems {
		byID[item.ID] = item
	}

	for _, line := range req.Items {
		item, found := byID[line.MenuItemID]
		if !found {
			s.logger.Warn().Str("menu_item_id", line.MenuItemID).Msg("unknown menu item in checkout")
			return nil, model.ErrMenuItemNotFound
		}
		if !item.Displayable() {
			s.logger.Warn().Str("menu_item_id", line.MenuItemID).Msg("unavailable menu item in checkout")
			return nil, model.ErrItemUnavailable
		}
	}

	now := s.now()
	order := &model.Order{
		ID:              uuid.New(),
		OrderType:       req.OrderType,
		TableNumber:     req.TableNumber,
		RoomNumber:      req.RoomNumber,
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
		WaiterID:        req.WaiterID,
		Status:          model.StatusPending,
		CreatedAt:       now,
	}

	for _, line := range req.Items {
		item := byID[line.MenuItemID]
		order.Items = append(order.Items, model.OrderLine{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   line.Quantity,
		})
		order.Subtotal += item.Price * float64(line.Quantity)
	}
	order.Total = order.Subtotal

	// Delivery is the only path that adds fees on top of the item sum.
	if req.OrderType == model.OrderTypeDelivery {
		settings, err := s.settingsRepo.Get(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to read settings for delivery order")
			return nil, fmt.Errorf("failed to create order: %w", err)
		}
		if !settings.DeliveryAvailable {
			return nil, model.ErrDeliveryUnavailable
		}

		order.DeliveryFee = settings.DeliveryFee
		for _, line := range req.Items {
			item := byID[line.MenuItemID]
			if !item.NeedsContainer {
				continue
			}
			price := item.ContainerPrice
			if price == 0 {
				price = settings.ContainerPrice
			}
			order.ContainerCost += price * float64(line.Quantity)
		}
		order.Total = order.Subtotal + order.DeliveryFee + order.ContainerCost
	}

	// Saboy models point-of-sale checkout: paid the moment it exists.
	if req.OrderType == model.OrderTypeSaboy {
		order.Status = model.StatusPaid
		order.IsPaid = true
		order.PaidAt = &now
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	for _, line := range order.Items {
		var ok bool
		ok, err = s.menuRepo.DecrementServings(ctx, tx, line.MenuItemID, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement servings: %w", err)
		}
		if !ok {
			s.logger.Warn().
				Str("order_id", order.ID.String()).
				Str("menu_item_id", line.MenuItemID).
				Int("quantity", line.Quantity).
				Msg("checkout refused, not enough servings")
			err = model.ErrInsufficientServings
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_type", order.OrderType).
		Float64("total", order.Total).
		Int("item_count", len(order.Items)).
		Msg("order created")

	// Change notifications are best-effort; the order is already durable.
	if pubErr := s.publisher.OrderChanged(ctx, events.EventOrderCreated, order); pubErr != nil {
		s.logger.Error().Err(pubErr).Str("order_id", order.ID.String()).Msg("failed to publish order event")
	}

	return order, nil
}

// Get retrieves an order, checking the active collection first and history
// second.
func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order != nil {
		return order, nil
	}

	archived, err := s.orderRepo.GetArchivedByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if archived == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found in either collection")
		return nil, model.ErrOrderNotFound
	}

	return &archived.Order, nil
}

// UpdateStatus writes an advisory status to an order.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	ok, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if !ok {
		return model.ErrOrderNotFound
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", status).
		Msg("order status updated")

	s.publishChange(ctx, events.EventOrderStatusChanged, id, status)
	return nil
}

// MarkPaid flags an order as paid now.
func (s *orderService) MarkPaid(ctx context.Context, id uuid.UUID) error {
	ok, err := s.orderRepo.MarkPaid(ctx, id, s.now())
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if !ok {
		return model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order marked paid")

	s.publishChange(ctx, events.EventOrderPaid, id, "")
	return nil
}

// Archive moves an order into history on behalf of actor.
func (s *orderService) Archive(ctx context.Context, id uuid.UUID, actor string) error {
	ok, err := s.orderRepo.Archive(ctx, id, actor)
	if err != nil {
		return fmt.Errorf("failed to archive order: %w", err)
	}
	if !ok {
		return model.ErrOrderNotFound
	}

	s.publishChange(ctx, events.EventOrderArchived, id, "")
	return nil
}

// Stats summarises the active collection.
func (s *orderService) Stats(ctx context.Context) (*model.OrderStats, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats, err := s.orderRepo.Stats(ctx, dayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}

// publishChange emits a best-effort change notification.
func (s *orderService) publishChange(ctx context.Context, eventType string, id uuid.UUID, status string) {
	order := &model.Order{ID: id, Status: status}
	if current, err := s.orderRepo.GetByID(ctx, id); err == nil && current != nil {
		order = current
	}

	if err := s.publisher.OrderChanged(ctx, eventType, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to publish order event")
	}
}

// validateOrderRequest validates the checkout payload.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return fmt.Errorf("order request is nil")
	}

	switch req.OrderType {
	case model.OrderTypeTable, model.OrderTypeDelivery, model.OrderTypeSaboy:
	default:
		return model.ErrInvalidOrderType
	}

	if len(req.Items) == 0 {
		return fmt.Errorf("order must contain at least one item")
	}

	for i, item := range req.Items {
		if item.MenuItemID == "" {
			return fmt.Errorf("item %d: menu item ID is required", i)
		}
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("menu_item_id", item.MenuItemID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	if req.OrderType == model.OrderTypeTable {
		hasTable := req.TableNumber != nil && *req.TableNumber != ""
		hasRoom := req.RoomNumber != nil && *req.RoomNumber != ""
		if hasTable == hasRoom {
			return model.ErrInvalidSeating
		}
	}

	if req.OrderType == model.OrderTypeDelivery {
		if req.DeliveryAddress == nil || *req.DeliveryAddress == "" {
			return model.ErrMissingAddress
		}
	}

	return nil
}
