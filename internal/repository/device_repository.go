package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// deviceRepository implements DeviceRepository using PostgreSQL.
type deviceRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDeviceRepository creates a new PostgreSQL-backed device repository.
func NewDeviceRepository(pool *pgxpool.Pool, logger zerolog.Logger) DeviceRepository {
	return &deviceRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "device").Logger(),
	}
}

// IsBlocked reports whether the device may not place orders.
func (r *deviceRepository) IsBlocked(ctx context.Context, deviceID string) (bool, error) {
	var blocked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM blocked_devices WHERE device_id = $1)`,
		deviceID,
	).Scan(&blocked)
	if err != nil {
		r.logger.Error().Err(err).Str("device_id", deviceID).Msg("failed to query blocked devices")
		return false, fmt.Errorf("failed to query blocked devices: %w", err)
	}
	return blocked, nil
}
