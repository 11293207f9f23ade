package service

import (
	"context"

	"kantin-dashboard/rate-svc/internal/domain"
	"kantin-dashboard/session"

	"go.uber.org/zap"
)

const unknownUser = "Unknown User"

// RatingService serves the owner's read-only view of customer ratings. Read
// failures are logged and answered with empty results.
type RatingService struct {
	repository RatingRepository
	cache      SummaryCache
	logger     *zap.Logger
}

func NewRatingService(repository RatingRepository, cache SummaryCache, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{repository: repository, cache: cache, logger: logger}
}

// Summarize derives the averages; no reviews yields all zeros.
func Summarize(totals domain.Totals) domain.Summary {
	summary := domain.Summary{
		TotalServiceRating: totals.Service,
		TotalFoodRating:    totals.Food,
		TotalReviews:       totals.Count,
	}
	if totals.Count > 0 {
		summary.AvgServiceRating = float64(totals.Service) / float64(totals.Count)
		summary.AvgFoodRating = float64(totals.Food) / float64(totals.Count)
	}
	return summary
}

func (s *RatingService) ByOrder(ctx context.Context, id session.Identity, orderID int) *domain.Rating {
	if !id.HasRestaurant() {
		return nil
	}
	rating, err := s.repository.RatingByOrder(ctx, id.RestaurantID, orderID)
	if err != nil {
		s.logger.Error("rating lookup failed", zap.Int("order_id", orderID), zap.Error(err))
		return nil
	}
	if rating != nil && rating.Name == "" {
		rating.Name = unknownUser
	}
	return rating
}

func (s *RatingService) ForRestaurant(ctx context.Context, id session.Identity) domain.RestaurantRatings {
	result := domain.RestaurantRatings{Ratings: []domain.Rating{}}
	if !id.HasRestaurant() {
		return result
	}

	ratings, err := s.repository.RestaurantRatings(ctx, id.RestaurantID)
	if err != nil {
		s.logger.Error("restaurant ratings failed", zap.Int("restaurant_id", id.RestaurantID), zap.Error(err))
		return result
	}

	var totals domain.Totals
	for i := range ratings {
		if ratings[i].Name == "" {
			ratings[i].Name = unknownUser
		}
		totals.Service += ratings[i].ServiceRating
		totals.Food += ratings[i].FoodQualityRating
	}
	totals.Count = len(ratings)

	result.Ratings = ratings
	result.Summary = Summarize(totals)
	return result
}

// Summary answers from the cache when possible and refills it from the
// aggregate query otherwise.
func (s *RatingService) Summary(ctx context.Context, id session.Identity) domain.Summary {
	if !id.HasRestaurant() {
		return domain.Summary{}
	}

	if s.cache != nil {
		summary, found, err := s.cache.Summary(ctx, id.RestaurantID)
		if err != nil {
			s.logger.Warn("rating summary cache read failed", zap.Int("restaurant_id", id.RestaurantID), zap.Error(err))
		} else if found {
			return summary
		}
	}

	totals, err := s.repository.RatingTotals(ctx, id.RestaurantID)
	if err != nil {
		s.logger.Error("rating totals failed", zap.Int("restaurant_id", id.RestaurantID), zap.Error(err))
		return domain.Summary{}
	}
	summary := Summarize(totals)

	if s.cache != nil {
		if err := s.cache.StoreSummary(ctx, id.RestaurantID, summary); err != nil {
			s.logger.Warn("rating summary cache fill failed", zap.Int("restaurant_id", id.RestaurantID), zap.Error(err))
		}
	}
	return summary
}
