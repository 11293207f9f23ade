package tests

import (
	"context"
	"errors"
	"testing"

	"kantin-dashboard/rate-svc/internal/domain"
	"kantin-dashboard/rate-svc/internal/mocks"
	"kantin-dashboard/rate-svc/internal/service"
	"kantin-dashboard/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	owner    = session.Identity{AccountID: "acc-1", RestaurantID: 10}
	homeless = session.Identity{AccountID: "acc-2"}
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		totals domain.Totals
		want   domain.Summary
	}{
		{
			name:   "no reviews",
			totals: domain.Totals{},
			want:   domain.Summary{},
		},
		{
			name:   "averages",
			totals: domain.Totals{Service: 9, Food: 7, Count: 2},
			want: domain.Summary{
				TotalServiceRating: 9,
				TotalFoodRating:    7,
				AvgServiceRating:   4.5,
				AvgFoodRating:      3.5,
				TotalReviews:       2,
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, service.Summarize(testCase.totals))
		})
	}
}

func TestRatingService_ByOrder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		id           session.Identity
		prepareMocks func(*mocks.RatingRepository)
		want         *domain.Rating
	}{
		{
			name: "rated order",
			id:   owner,
			prepareMocks: func(repository *mocks.RatingRepository) {
				repository.On("RatingByOrder", ctx, 10, 99).
					Return(&domain.Rating{OrderID: 99, ServiceRating: 5, Name: "Sari"}, nil).Once()
			},
			want: &domain.Rating{OrderID: 99, ServiceRating: 5, Name: "Sari"},
		},
		{
			name: "anonymous reviewer",
			id:   owner,
			prepareMocks: func(repository *mocks.RatingRepository) {
				repository.On("RatingByOrder", ctx, 10, 99).Return(&domain.Rating{OrderID: 99}, nil).Once()
			},
			want: &domain.Rating{OrderID: 99, Name: "Unknown User"},
		},
		{
			name: "not rated",
			id:   owner,
			prepareMocks: func(repository *mocks.RatingRepository) {
				repository.On("RatingByOrder", ctx, 10, 99).Return(nil, nil).Once()
			},
			want: nil,
		},
		{
			name: "read failure",
			id:   owner,
			prepareMocks: func(repository *mocks.RatingRepository) {
				repository.On("RatingByOrder", ctx, 10, 99).Return(nil, errors.New("connection refused")).Once()
			},
			want: nil,
		},
		{
			name:         "no restaurant",
			id:           homeless,
			prepareMocks: func(*mocks.RatingRepository) {},
			want:         nil,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repository := mocks.NewRatingRepository(t)
			testCase.prepareMocks(repository)
			svc := service.NewRatingService(repository, nil, nil)

			assert.Equal(t, testCase.want, svc.ByOrder(ctx, testCase.id, 99))
		})
	}
}

func TestRatingService_ForRestaurant(t *testing.T) {
	ctx := context.Background()

	t.Run("summary follows the list", func(t *testing.T) {
		repository := mocks.NewRatingRepository(t)
		repository.On("RestaurantRatings", ctx, 10).Return([]domain.Rating{
			{ID: 1, ServiceRating: 5, FoodQualityRating: 4, Name: "Sari"},
			{ID: 2, ServiceRating: 3, FoodQualityRating: 5},
			{ID: 3, ServiceRating: 4, FoodQualityRating: 3, Name: "Budi"},
		}, nil).Once()

		result := service.NewRatingService(repository, nil, nil).ForRestaurant(ctx, owner)

		assert.Len(t, result.Ratings, 3)
		assert.Equal(t, "Unknown User", result.Ratings[1].Name)
		assert.Equal(t, domain.Summary{
			TotalServiceRating: 12,
			TotalFoodRating:    12,
			AvgServiceRating:   4,
			AvgFoodRating:      4,
			TotalReviews:       3,
		}, result.Summary)
	})

	t.Run("read failure degrades to empty", func(t *testing.T) {
		repository := mocks.NewRatingRepository(t)
		repository.On("RestaurantRatings", ctx, 10).Return(nil, errors.New("timeout")).Once()

		result := service.NewRatingService(repository, nil, nil).ForRestaurant(ctx, owner)

		assert.NotNil(t, result.Ratings)
		assert.Empty(t, result.Ratings)
		assert.Equal(t, domain.Summary{}, result.Summary)
	})

	t.Run("no restaurant", func(t *testing.T) {
		repository := mocks.NewRatingRepository(t)
		result := service.NewRatingService(repository, nil, nil).ForRestaurant(ctx, homeless)
		assert.Empty(t, result.Ratings)
	})
}

func TestRatingService_Summary(t *testing.T) {
	ctx := context.Background()
	cached := domain.Summary{TotalReviews: 4, AvgServiceRating: 4.25}

	tests := []struct {
		name         string
		prepareMocks func(*mocks.RatingRepository, *mocks.SummaryCache)
		want         domain.Summary
	}{
		{
			name: "cache hit",
			prepareMocks: func(repository *mocks.RatingRepository, cache *mocks.SummaryCache) {
				cache.On("Summary", ctx, 10).Return(cached, true, nil).Once()
			},
			want: cached,
		},
		{
			name: "cache miss fills",
			prepareMocks: func(repository *mocks.RatingRepository, cache *mocks.SummaryCache) {
				cache.On("Summary", ctx, 10).Return(domain.Summary{}, false, nil).Once()
				repository.On("RatingTotals", ctx, 10).Return(domain.Totals{Service: 8, Food: 6, Count: 2}, nil).Once()
				cache.On("StoreSummary", ctx, 10, mock.MatchedBy(func(s domain.Summary) bool {
					return s.TotalReviews == 2 && s.AvgFoodRating == 3
				})).Return(nil).Once()
			},
			want: domain.Summary{TotalServiceRating: 8, TotalFoodRating: 6, AvgServiceRating: 4, AvgFoodRating: 3, TotalReviews: 2},
		},
		{
			name: "cache down still answers",
			prepareMocks: func(repository *mocks.RatingRepository, cache *mocks.SummaryCache) {
				cache.On("Summary", ctx, 10).Return(domain.Summary{}, false, errors.New("dial tcp")).Once()
				repository.On("RatingTotals", ctx, 10).Return(domain.Totals{Service: 5, Food: 5, Count: 1}, nil).Once()
				cache.On("StoreSummary", ctx, 10, mock.Anything).Return(errors.New("dial tcp")).Once()
			},
			want: domain.Summary{TotalServiceRating: 5, TotalFoodRating: 5, AvgServiceRating: 5, AvgFoodRating: 5, TotalReviews: 1},
		},
		{
			name: "database down degrades to zero",
			prepareMocks: func(repository *mocks.RatingRepository, cache *mocks.SummaryCache) {
				cache.On("Summary", ctx, 10).Return(domain.Summary{}, false, nil).Once()
				repository.On("RatingTotals", ctx, 10).Return(domain.Totals{}, errors.New("connection refused")).Once()
			},
			want: domain.Summary{},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repository := mocks.NewRatingRepository(t)
			cache := mocks.NewSummaryCache(t)
			testCase.prepareMocks(repository, cache)

			got := service.NewRatingService(repository, cache, nil).Summary(ctx, owner)

			assert.Equal(t, testCase.want, got)
		})
	}
}
