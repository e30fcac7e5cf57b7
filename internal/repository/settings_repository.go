package repository

import (
	"context"
	"fmt"

	"dastarkhan/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// settingsRepository implements SettingsRepository over the singleton
// order_settings row (id = 1).
type settingsRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSettingsRepository creates a new PostgreSQL-backed settings repository.
func NewSettingsRepository(pool *pgxpool.Pool, logger zerolog.Logger) SettingsRepository {
	return &settingsRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "settings").Logger(),
	}
}

// Get reads the settings row. Absent row and NULL columns fall back to the
// model defaults.
func (r *settingsRepository) Get(ctx context.Context) (*model.DeliverySettings, error) {
	defaults := model.DefaultSettings()

	query := `
		SELECT
			COALESCE(delivery_available, $1),
			COALESCE(delivery_fee, $2),
			COALESCE(delivery_time, $3),
			COALESCE(delivery_radius_km, $4),
			COALESCE(phone, ''),
			COALESCE(container_price, $5),
			updated_at
		FROM order_settings
		WHERE id = 1
	`

	var s model.DeliverySettings
	err := r.pool.QueryRow(ctx, query,
		defaults.DeliveryAvailable, defaults.DeliveryFee, defaults.DeliveryTime,
		defaults.DeliveryRadiusKM, defaults.ContainerPrice,
	).Scan(
		&s.DeliveryAvailable, &s.DeliveryFee, &s.DeliveryTime,
		&s.DeliveryRadiusKM, &s.Phone, &s.ContainerPrice, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Msg("settings row absent, serving defaults")
			return defaults, nil
		}
		r.logger.Error().Err(err).Msg("failed to query settings")
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	return &s, nil
}

// Update merges a partial update into the row. COALESCE keeps every field
// the caller did not send, so partial updates cannot clobber unrelated
// fields.
func (r *settingsRepository) Update(ctx context.Context, update *model.SettingsUpdate) error {
	query := `
		INSERT INTO order_settings (
			id, delivery_available, delivery_fee, delivery_time,
			delivery_radius_km, phone, container_price, updated_at
		)
		VALUES (1, $1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			delivery_available = COALESCE($1, order_settings.delivery_available),
			delivery_fee       = COALESCE($2, order_settings.delivery_fee),
			delivery_time      = COALESCE($3, order_settings.delivery_time),
			delivery_radius_km = COALESCE($4, order_settings.delivery_radius_km),
			phone              = COALESCE($5, order_settings.phone),
			container_price    = COALESCE($6, order_settings.container_price),
			updated_at         = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		update.DeliveryAvailable, update.DeliveryFee, update.DeliveryTime,
		update.DeliveryRadiusKM, update.Phone, update.ContainerPrice,
	)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to update settings")
		return fmt.Errorf("failed to update settings: %w", err)
	}

	r.logger.Info().Msg("settings updated")
	return nil
}
