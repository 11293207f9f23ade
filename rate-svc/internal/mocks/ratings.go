package mocks

import (
	"context"

	"kantin-dashboard/rate-svc/internal/domain"
	"kantin-dashboard/session"

	"github.com/stretchr/testify/mock"
)

type RatingRepository struct {
	mock.Mock
}

func NewRatingRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *RatingRepository {
	m := &RatingRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *RatingRepository) RatingByOrder(ctx context.Context, restaurantID, orderID int) (*domain.Rating, error) {
	ret := _m.Called(ctx, restaurantID, orderID)
	var r0 *domain.Rating
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Rating)
	}
	return r0, ret.Error(1)
}

func (_m *RatingRepository) RestaurantRatings(ctx context.Context, restaurantID int) ([]domain.Rating, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 []domain.Rating
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Rating)
	}
	return r0, ret.Error(1)
}

func (_m *RatingRepository) RatingTotals(ctx context.Context, restaurantID int) (domain.Totals, error) {
	ret := _m.Called(ctx, restaurantID)
	return ret.Get(0).(domain.Totals), ret.Error(1)
}

type SummaryCache struct {
	mock.Mock
}

func NewSummaryCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *SummaryCache {
	m := &SummaryCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *SummaryCache) Summary(ctx context.Context, restaurantID int) (domain.Summary, bool, error) {
	ret := _m.Called(ctx, restaurantID)
	return ret.Get(0).(domain.Summary), ret.Bool(1), ret.Error(2)
}

func (_m *SummaryCache) StoreSummary(ctx context.Context, restaurantID int, summary domain.Summary) error {
	ret := _m.Called(ctx, restaurantID, summary)
	return ret.Error(0)
}

type RatingServiceInterface struct {
	mock.Mock
}

func NewRatingServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *RatingServiceInterface {
	m := &RatingServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *RatingServiceInterface) ByOrder(ctx context.Context, id session.Identity, orderID int) *domain.Rating {
	ret := _m.Called(ctx, id, orderID)
	if ret.Get(0) == nil {
		return nil
	}
	return ret.Get(0).(*domain.Rating)
}

func (_m *RatingServiceInterface) ForRestaurant(ctx context.Context, id session.Identity) domain.RestaurantRatings {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.RestaurantRatings)
}

func (_m *RatingServiceInterface) Summary(ctx context.Context, id session.Identity) domain.Summary {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Summary)
}
