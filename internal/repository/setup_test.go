package repository

import (
	"context"
	"testing"
	"time"

	"dastarkhan/internal/database"
	"dastarkhan/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer, applies the schema and
// returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedMenu inserts a category and the given menu items.
func seedMenu(t *testing.T, pool *pgxpool.Pool, items []model.MenuItem) {
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO categories (id, name) VALUES ('C001', 'Mains') ON CONFLICT DO NOTHING`)
	require.NoError(t, err)

	query := `
		INSERT INTO menu_items (
			id, name, description, price, category_id, available, is_available,
			ingredients, allergens, servings_left, serves, needs_container, container_price
		)
		VALUES ($1, $2, $3, $4, 'C001', $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, m := range items {
		ingredients := m.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		allergens := m.Allergens
		if allergens == nil {
			allergens = []string{}
		}
		_, err := pool.Exec(ctx, query,
			m.ID, m.Name, m.Description, m.Price, m.Available, m.IsAvailable,
			ingredients, allergens, m.ServingsLeft, m.Serves,
			m.NeedsContainer, m.ContainerPrice)
		require.NoError(t, err)
	}
}
