package mocks

import (
	"context"
	"time"

	"kantin-dashboard/sales-svc/internal/domain"
	"kantin-dashboard/session"

	"github.com/stretchr/testify/mock"
)

type OrderReader struct {
	mock.Mock
}

func NewOrderReader(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderReader {
	m := &OrderReader{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderReader) CompletedOrders(ctx context.Context, restaurantID int, from, to time.Time) ([]domain.CompletedOrder, error) {
	ret := _m.Called(ctx, restaurantID, from, to)
	var r0 []domain.CompletedOrder
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.CompletedOrder)
	}
	return r0, ret.Error(1)
}

type DailyCounters struct {
	mock.Mock
}

func NewDailyCounters(t interface {
	mock.TestingT
	Cleanup(func())
}) *DailyCounters {
	m := &DailyCounters{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *DailyCounters) DailyCounter(ctx context.Context, restaurantID int, day string) (domain.Daily, bool, error) {
	ret := _m.Called(ctx, restaurantID, day)
	return ret.Get(0).(domain.Daily), ret.Bool(1), ret.Error(2)
}

type SalesServiceInterface struct {
	mock.Mock
}

func (_m *SalesServiceInterface) Summary(ctx context.Context, id session.Identity, month time.Time) (domain.Summary, error) {
	ret := _m.Called(ctx, id, month)
	return ret.Get(0).(domain.Summary), ret.Error(1)
}

func (_m *SalesServiceInterface) Daily(ctx context.Context, id session.Identity) (domain.Daily, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Daily), ret.Error(1)
}

func (_m *SalesServiceInterface) Report(ctx context.Context, id session.Identity) (domain.Report, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(domain.Report), ret.Error(1)
}
