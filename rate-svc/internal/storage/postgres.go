package storage

import (
	"context"
	"database/sql"
	"errors"

	"kantin-dashboard/rate-svc/internal/domain"
	"kantin-dashboard/rate-svc/internal/service"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var _ service.RatingRepository = (*PostgresRepository)(nil)

const ratingQuery = `
	SELECT r.id, r.order_id, r.restaurant_id, COALESCE(r.user_id::text, ''), COALESCE(p.full_name, ''),
		COALESCE(r.service_rating, 0), COALESCE(r.food_quality_rating, 0), COALESCE(r.review, ''), r.created_at
	FROM ratings r
	LEFT JOIN profiles p ON p.id = r.user_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRating(row rowScanner) (domain.Rating, error) {
	var rating domain.Rating
	err := row.Scan(&rating.ID, &rating.OrderID, &rating.RestaurantID, &rating.UserID, &rating.Name,
		&rating.ServiceRating, &rating.FoodQualityRating, &rating.Review, &rating.CreatedAt)
	return rating, err
}

func (r *PostgresRepository) RatingByOrder(ctx context.Context, restaurantID, orderID int) (*domain.Rating, error) {
	rating, err := scanRating(r.DB.QueryRowContext(ctx, ratingQuery+`
		WHERE r.order_id = $1 AND r.restaurant_id = $2
		ORDER BY r.created_at DESC
		LIMIT 1
	`, orderID, restaurantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *PostgresRepository) RestaurantRatings(ctx context.Context, restaurantID int) ([]domain.Rating, error) {
	rows, err := r.DB.QueryContext(ctx, ratingQuery+`
		WHERE r.restaurant_id = $1
		ORDER BY r.created_at DESC
	`, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ratings := []domain.Rating{}
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *PostgresRepository) RatingTotals(ctx context.Context, restaurantID int) (domain.Totals, error) {
	var totals domain.Totals
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(service_rating), 0), COALESCE(SUM(food_quality_rating), 0), COUNT(*)
		FROM ratings
		WHERE restaurant_id = $1
	`, restaurantID).Scan(&totals.Service, &totals.Food, &totals.Count)
	return totals, err
}
