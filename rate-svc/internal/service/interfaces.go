package service

import (
	"context"

	"kantin-dashboard/rate-svc/internal/domain"
	"kantin-dashboard/session"
)

type RatingServiceInterface interface {
	ByOrder(ctx context.Context, id session.Identity, orderID int) *domain.Rating
	ForRestaurant(ctx context.Context, id session.Identity) domain.RestaurantRatings
	Summary(ctx context.Context, id session.Identity) domain.Summary
}

type RatingRepository interface {
	// RatingByOrder returns nil, nil when the order has no rating.
	RatingByOrder(ctx context.Context, restaurantID, orderID int) (*domain.Rating, error)
	RestaurantRatings(ctx context.Context, restaurantID int) ([]domain.Rating, error)
	RatingTotals(ctx context.Context, restaurantID int) (domain.Totals, error)
}

type SummaryCache interface {
	Summary(ctx context.Context, restaurantID int) (domain.Summary, bool, error)
	StoreSummary(ctx context.Context, restaurantID int, summary domain.Summary) error
}

var _ RatingServiceInterface = (*RatingService)(nil)
