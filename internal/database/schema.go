package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the full DDL for the service. Statements are idempotent so
// Migrate can run on every startup.
const Schema = `
	CREATE TABLE IF NOT EXISTS categories (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS menu_items (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		price            DECIMAL(12,2) NOT NULL CHECK (price >= 0),
		category_id      TEXT NOT NULL REFERENCES categories(id),
		image_url        TEXT NOT NULL DEFAULT '',
		model_url        TEXT NOT NULL DEFAULT '',
		available        BOOLEAN,
		is_available     BOOLEAN,
		preparation_time INTEGER NOT NULL DEFAULT 0,
		ingredients      TEXT[] NOT NULL DEFAULT '{}',
		allergens        TEXT[] NOT NULL DEFAULT '{}',
		servings_left    INTEGER,
		serves           INTEGER NOT NULL DEFAULT 1,
		needs_container  BOOLEAN NOT NULL DEFAULT FALSE,
		container_price  DECIMAL(12,2) NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS orders (
		id               UUID PRIMARY KEY,
		order_type       TEXT NOT NULL,
		table_number     TEXT,
		room_number      TEXT,
		delivery_address TEXT,
		phone            TEXT,
		subtotal         DECIMAL(12,2) NOT NULL,
		delivery_fee     DECIMAL(12,2) NOT NULL DEFAULT 0,
		container_cost   DECIMAL(12,2) NOT NULL DEFAULT 0,
		total            DECIMAL(12,2) NOT NULL,
		status           TEXT NOT NULL,
		is_paid          BOOLEAN NOT NULL DEFAULT FALSE,
		waiter_id        UUID,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		paid_at          TIMESTAMPTZ
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id           UUID PRIMARY KEY,
		order_id     UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		menu_item_id TEXT NOT NULL,
		name         TEXT NOT NULL,
		price        DECIMAL(12,2) NOT NULL,
		quantity     INTEGER NOT NULL CHECK (quantity > 0)
	);

	CREATE TABLE IF NOT EXISTS order_history (
		id               UUID PRIMARY KEY,
		order_type       TEXT NOT NULL,
		table_number     TEXT,
		room_number      TEXT,
		delivery_address TEXT,
		phone            TEXT,
		items            JSONB NOT NULL,
		subtotal         DECIMAL(12,2) NOT NULL,
		delivery_fee     DECIMAL(12,2) NOT NULL DEFAULT 0,
		container_cost   DECIMAL(12,2) NOT NULL DEFAULT 0,
		total            DECIMAL(12,2) NOT NULL,
		status           TEXT NOT NULL,
		is_paid          BOOLEAN NOT NULL DEFAULT FALSE,
		waiter_id        UUID,
		created_at       TIMESTAMPTZ NOT NULL,
		paid_at          TIMESTAMPTZ,
		deleted_at       TIMESTAMPTZ NOT NULL,
		deleted_by       TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_settings (
		id                 INTEGER PRIMARY KEY CHECK (id = 1),
		delivery_available BOOLEAN,
		delivery_fee       DECIMAL(12,2),
		delivery_time      TEXT,
		delivery_radius_km DECIMAL(6,2),
		phone              TEXT,
		container_price    DECIMAL(12,2),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL DEFAULT '',
		role          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		session_token TEXT UNIQUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS blocked_devices (
		device_id  TEXT PRIMARY KEY,
		reason     TEXT NOT NULL DEFAULT '',
		blocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders (created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);
	CREATE INDEX IF NOT EXISTS idx_menu_items_category ON menu_items (category_id);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info().Msg("database schema applied")
	return nil
}
