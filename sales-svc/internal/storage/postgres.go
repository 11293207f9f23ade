package storage

import (
	"context"
	"database/sql"
	"time"

	"kantin-dashboard/sales-svc/internal/domain"
	"kantin-dashboard/sales-svc/internal/service"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var _ service.OrderReader = (*PostgresRepository)(nil)

func (r *PostgresRepository) CompletedOrders(ctx context.Context, restaurantID int, from, to time.Time) ([]domain.CompletedOrder, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT created_at, total::text, original_total::text, used_coin::text
		FROM orders
		WHERE restaurants_id = $1
		  AND order_status = 'COMPLETED'
		  AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC
	`, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.CompletedOrder{}
	for rows.Next() {
		var o domain.CompletedOrder
		var total, original, coins sql.NullString
		if err := rows.Scan(&o.CreatedAt, &total, &original, &coins); err != nil {
			return nil, err
		}
		o.Total, o.OriginalTotal, o.UsedCoin = total.String, original.String, coins.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
