package mocks

import (
	"context"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderRepository) ListOrders(ctx context.Context, restaurantID int, filter domain.OrderFilter) ([]domain.Order, error) {
	ret := _m.Called(ctx, restaurantID, filter)
	var r0 []domain.Order
	if rf, ok := ret.Get(0).(func(context.Context, int, domain.OrderFilter) []domain.Order); ok {
		r0 = rf(ctx, restaurantID, filter)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	ret := _m.Called(ctx, restaurantID, orderID)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

// WithinTx accepts either an error or a func(ctx, fn) error as its return
// value; the latter lets a test drive fn with its own OrderTx.
func (_m *OrderRepository) WithinTx(ctx context.Context, fn func(tx service.OrderTx) error) error {
	ret := _m.Called(ctx, fn)
	if rf, ok := ret.Get(0).(func(context.Context, func(service.OrderTx) error) error); ok {
		return rf(ctx, fn)
	}
	return ret.Error(0)
}

type OrderTx struct {
	mock.Mock
}

func NewOrderTx(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderTx {
	m := &OrderTx{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderTx) LockOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	ret := _m.Called(ctx, restaurantID, orderID)
	var r0 *domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderTx) UpdateStatus(ctx context.Context, orderID int, from, to domain.OrderStatus) (int64, error) {
	ret := _m.Called(ctx, orderID, from, to)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *OrderTx) IncrementCoins(ctx context.Context, customerID string, delta int) (int, error) {
	ret := _m.Called(ctx, customerID, delta)
	return ret.Int(0), ret.Error(1)
}

type OrderCache struct {
	mock.Mock
}

func NewOrderCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderCache {
	m := &OrderCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderCache) Version(ctx context.Context, restaurantID int) (int64, error) {
	ret := _m.Called(ctx, restaurantID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *OrderCache) Orders(ctx context.Context, restaurantID int) ([]domain.Order, bool, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

func (_m *OrderCache) StoreOrders(ctx context.Context, restaurantID int, version int64, orders []domain.Order) (bool, error) {
	ret := _m.Called(ctx, restaurantID, version, orders)
	return ret.Bool(0), ret.Error(1)
}

func (_m *OrderCache) PatchStatus(ctx context.Context, restaurantID, orderID int, status domain.OrderStatus) error {
	ret := _m.Called(ctx, restaurantID, orderID, status)
	return ret.Error(0)
}

type StatusPublisher struct {
	mock.Mock
}

func NewStatusPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *StatusPublisher {
	m := &StatusPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *StatusPublisher) PublishStatusChange(ctx context.Context, event domain.StatusEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(orderID int) ([]byte, error) {
	ret := _m.Called(orderID)
	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

type MessageWriter struct {
	mock.Mock
}

func NewMessageWriter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MessageWriter {
	m := &MessageWriter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	ret := _m.Called(ctx, msgs)
	return ret.Error(0)
}
