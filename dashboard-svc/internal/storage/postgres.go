package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kantin-dashboard/dashboard-svc/internal/service"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var (
	_ service.OrderRepository      = (*PostgresRepository)(nil)
	_ service.MenuRepository       = (*PostgresRepository)(nil)
	_ service.RestaurantRepository = (*PostgresRepository)(nil)
	_ service.AccountRepository    = (*PostgresRepository)(nil)
	_ service.OrderTx              = (*orderTx)(nil)
)

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS owner (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			owner_id UUID UNIQUE REFERENCES owner(id),
			title TEXT NOT NULL,
			subtitle TEXT,
			image TEXT,
			is_open BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY,
			full_name TEXT,
			coins INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS menus (
			id SERIAL PRIMARY KEY,
			restaurants_id INTEGER NOT NULL REFERENCES restaurants(id),
			name TEXT NOT NULL,
			description TEXT,
			price INTEGER NOT NULL,
			category TEXT NOT NULL,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			image TEXT,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		"ALTER TABLE menus ADD COLUMN IF NOT EXISTS is_deleted BOOLEAN NOT NULL DEFAULT FALSE",
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			restaurants_id INTEGER NOT NULL REFERENCES restaurants(id),
			user_id UUID REFERENCES profiles(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			used_coin INTEGER NOT NULL DEFAULT 0 CHECK (used_coin >= 0),
			original_total NUMERIC,
			total NUMERIC,
			order_status TEXT NOT NULL DEFAULT 'NEW',
			type TEXT,
			notes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS order_dishes (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(id),
			menus_id INTEGER NOT NULL REFERENCES menus(id),
			quantity INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id SERIAL PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(id),
			restaurant_id INTEGER NOT NULL REFERENCES restaurants(id),
			user_id UUID REFERENCES profiles(id),
			service_rating INTEGER,
			food_quality_rating INTEGER,
			review TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		"CREATE INDEX IF NOT EXISTS orders_restaurant_created_idx ON orders (restaurants_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS order_dishes_order_idx ON order_dishes (order_id)",
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
