package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dastarkhan/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `
	id, order_type, table_number, room_number, delivery_address, phone,
	subtotal, delivery_fee, container_cost, total, status, is_paid,
	waiter_id, created_at, paid_at
`

// orderRepository implements OrderRepository using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.OrderType, order.TableNumber, order.RoomNumber,
		order.DeliveryAddress, order.Phone, order.Subtotal, order.DeliveryFee,
		order.ContainerCost, order.Total, order.Status, order.IsPaid,
		order.WaiterID, order.CreatedAt, order.PaidAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_type", order.OrderType).
		Msg("order created")

	return nil
}

// CreateOrderItems inserts the order's line snapshots within the provided
// transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderLine) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, menu_item_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.MenuItemID, item.Name, item.Price, item.Quantity)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("menu_item_id", items[i].MenuItemID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an active order with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := r.scanOrderRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.itemsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	order.Items = items[id]

	return order, nil
}

// GetArchivedByID retrieves an order from history.
func (r *orderRepository) GetArchivedByID(ctx context.Context, id uuid.UUID) (*model.ArchivedOrder, error) {
	query := `
		SELECT id, order_type, table_number, room_number, delivery_address, phone,
		       items, subtotal, delivery_fee, container_cost, total, status,
		       is_paid, waiter_id, created_at, paid_at, deleted_at, deleted_by
		FROM order_history
		WHERE id = $1
	`

	var a model.ArchivedOrder
	var itemsJSON []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.OrderType, &a.TableNumber, &a.RoomNumber, &a.DeliveryAddress,
		&a.Phone, &itemsJSON, &a.Subtotal, &a.DeliveryFee, &a.ContainerCost,
		&a.Total, &a.Status, &a.IsPaid, &a.WaiterID, &a.CreatedAt, &a.PaidAt,
		&a.DeletedAt, &a.DeletedBy,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query archived order")
		return nil, fmt.Errorf("failed to query archived order: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &a.Items); err != nil {
		return nil, fmt.Errorf("failed to decode archived items: %w", err)
	}

	return &a, nil
}

// ListActive retrieves all active orders, newest first, with items.
func (r *orderRepository) ListActive(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		order, err := r.scanOrderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	itemsByOrder, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return orders, nil
}

// UpdateStatus writes a status to an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Str("status", status).
			Msg("failed to update order status")
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkPaid flags an order as paid at the given time.
func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET is_paid = TRUE, paid_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order paid")
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Archive moves an order into history and removes it from the active table
// in one transaction, so a crash can never lose the item snapshot between
// the two writes.
func (r *orderRepository) Archive(ctx context.Context, id uuid.UUID, deletedBy string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO order_history (
			id, order_type, table_number, room_number, delivery_address, phone,
			items, subtotal, delivery_fee, container_cost, total, status,
			is_paid, waiter_id, created_at, paid_at, deleted_at, deleted_by
		)
		SELECT o.id, o.order_type, o.table_number, o.room_number,
		       o.delivery_address, o.phone,
		       COALESCE((
		           SELECT json_agg(json_build_object(
		               'menuItemId', i.menu_item_id,
		               'name', i.name,
		               'price', i.price,
		               'quantity', i.quantity))
		           FROM order_items i WHERE i.order_id = o.id
		       ), '[]'::json),
		       o.subtotal, o.delivery_fee, o.container_cost, o.total, o.status,
		       o.is_paid, o.waiter_id, o.created_at, o.paid_at, NOW(), $2
		FROM orders o
		WHERE o.id = $1
	`

	tag, err := tx.Exec(ctx, query, id, deletedBy)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to archive order")
		return false, fmt.Errorf("failed to archive order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete archived order")
		return false, fmt.Errorf("failed to delete archived order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit archive: %w", err)
	}

	r.logger.Info().
		Str("order_id", id.String()).
		Str("deleted_by", deletedBy).
		Msg("order archived")

	return true, nil
}

// Stats summarises the active table for the dashboard.
func (r *orderRepository) Stats(ctx context.Context, dayStart time.Time) (*model.OrderStats, error) {
	stats := &model.OrderStats{CountByStatus: map[string]int{}}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query status counts")
		return nil, fmt.Errorf("failed to query status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.CountByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status counts: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders WHERE created_at >= $1`,
		dayStart,
	).Scan(&stats.OrdersToday, &stats.RevenueToday)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query daily stats")
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}

	return stats, nil
}

// scanOrderRow scans one order row (without items).
func (r *orderRepository) scanOrderRow(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.OrderType, &o.TableNumber, &o.RoomNumber, &o.DeliveryAddress,
		&o.Phone, &o.Subtotal, &o.DeliveryFee, &o.ContainerCost, &o.Total,
		&o.Status, &o.IsPaid, &o.WaiterID, &o.CreatedAt, &o.PaidAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// itemsFor loads line items for a set of orders, grouped by order id.
func (r *orderRepository) itemsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.OrderLine, error) {
	query := `
		SELECT id, order_id, menu_item_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]model.OrderLine, len(ids))
	for rows.Next() {
		var item model.OrderLine
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return result, nil
}
