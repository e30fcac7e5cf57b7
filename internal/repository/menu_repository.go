package repository

import (
	"context"
	"fmt"

	"dastarkhan/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const menuItemColumns = `
	id, name, description, price, category_id, image_url, model_url,
	available, is_available, preparation_time, ingredients, allergens,
	servings_left, serves, needs_container, container_price,
	created_at, updated_at
`

// menuRepository implements MenuRepository using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

// ListItems retrieves the whole catalogue ordered by name.
func (r *menuRepository) ListItems(ctx context.Context) ([]model.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

// GetByIDs retrieves menu items by their IDs.
func (r *menuRepository) GetByIDs(ctx context.Context, ids []string) ([]model.MenuItem, error) {
	if len(ids) == 0 {
		return []model.MenuItem{}, nil
	}

	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("id_count", len(ids)).Msg("failed to query menu items by ids")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	return scanMenuItems(rows)
}

// DecrementServings performs the guarded decrement. The WHERE clause is the
// oversell protection: under concurrent checkouts only one write can take
// the counter through any given value.
func (r *menuRepository) DecrementServings(ctx context.Context, tx pgx.Tx, itemID string, qty int) (bool, error) {
	query := `
		UPDATE menu_items
		SET servings_left = servings_left - $2, updated_at = NOW()
		WHERE id = $1
		  AND (servings_left IS NULL OR servings_left >= $2)
	`

	// Items with a NULL counter are unlimited; SET on NULL stays NULL.
	tag, err := tx.Exec(ctx, query, itemID, qty)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("menu_item_id", itemID).
			Int("quantity", qty).
			Msg("failed to decrement servings")
		return false, fmt.Errorf("failed to decrement servings: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().
			Str("menu_item_id", itemID).
			Int("quantity", qty).
			Msg("servings decrement refused")
		return false, nil
	}

	return true, nil
}

// SetAvailability updates the current availability flag.
func (r *menuRepository) SetAvailability(ctx context.Context, id string, available bool) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE menu_items SET is_available = $2, updated_at = NOW() WHERE id = $1`,
		id, available)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to update availability")
		return false, fmt.Errorf("failed to update availability: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListCategories retrieves all categories ordered by name.
func (r *menuRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// scanMenuItems collects menu item rows.
func scanMenuItems(rows pgx.Rows) ([]model.MenuItem, error) {
	var items []model.MenuItem
	for rows.Next() {
		var m model.MenuItem
		err := rows.Scan(
			&m.ID, &m.Name, &m.Description, &m.Price, &m.CategoryID,
			&m.ImageURL, &m.ModelURL, &m.Available, &m.IsAvailable,
			&m.PreparationTime, &m.Ingredients, &m.Allergens,
			&m.ServingsLeft, &m.Serves, &m.NeedsContainer, &m.ContainerPrice,
			&m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}
