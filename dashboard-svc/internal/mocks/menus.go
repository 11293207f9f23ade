package mocks

import (
	"context"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"

	"github.com/stretchr/testify/mock"
)

type MenuRepository struct {
	mock.Mock
}

func NewMenuRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MenuRepository {
	m := &MenuRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MenuRepository) ListMenus(ctx context.Context, restaurantID int, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	ret := _m.Called(ctx, restaurantID, filter)
	var r0 []domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) GetMenu(ctx context.Context, menuID int) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, menuID)
	var r0 *domain.MenuItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *MenuRepository) CreateMenu(ctx context.Context, item *domain.MenuItem) error {
	ret := _m.Called(ctx, item)
	if rf, ok := ret.Get(0).(func(context.Context, *domain.MenuItem) error); ok {
		return rf(ctx, item)
	}
	return ret.Error(0)
}

func (_m *MenuRepository) UpdateMenu(ctx context.Context, item *domain.MenuItem) error {
	ret := _m.Called(ctx, item)
	return ret.Error(0)
}

func (_m *MenuRepository) DeleteMenu(ctx context.Context, restaurantID, menuID int) (int64, error) {
	ret := _m.Called(ctx, restaurantID, menuID)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MenuRepository) ToggleAvailability(ctx context.Context, restaurantID, menuID int) (bool, error) {
	ret := _m.Called(ctx, restaurantID, menuID)
	return ret.Bool(0), ret.Error(1)
}

type ImageStore struct {
	mock.Mock
}

func NewImageStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ImageStore {
	m := &ImageStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *ImageStore) Save(ctx context.Context, folder string, upload *service.Upload) (string, error) {
	ret := _m.Called(ctx, folder, upload)
	return ret.String(0), ret.Error(1)
}
