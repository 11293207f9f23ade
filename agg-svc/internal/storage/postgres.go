package storage

import (
	"context"
	"database/sql"
	"time"

	"kantin-dashboard/agg-svc/internal/domain"
	"kantin-dashboard/agg-svc/internal/service"

	"github.com/lib/pq"
)

type PostgresSource struct {
	DB *sql.DB
}

func NewPostgresSource(db *sql.DB) *PostgresSource {
	return &PostgresSource{DB: db}
}

var _ service.DailySource = (*PostgresSource)(nil)

func (s *PostgresSource) CompletedTotals(ctx context.Context, from, to time.Time) ([]domain.DailyFigure, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT restaurants_id, COALESCE(SUM(total), 0)::float8, COUNT(*), array_agg(id ORDER BY id)
		FROM orders
		WHERE order_status = 'COMPLETED' AND created_at >= $1 AND created_at < $2
		GROUP BY restaurants_id
		ORDER BY restaurants_id
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	figures := []domain.DailyFigure{}
	for rows.Next() {
		var f domain.DailyFigure
		if err := rows.Scan(&f.RestaurantID, &f.Total, &f.Count, pq.Array(&f.OrderIDs)); err != nil {
			return nil, err
		}
		figures = append(figures, f)
	}
	return figures, rows.Err()
}
