package mocks

import (
	"context"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/session"

	"github.com/stretchr/testify/mock"
)

type RestaurantRepository struct {
	mock.Mock
}

func NewRestaurantRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *RestaurantRepository {
	m := &RestaurantRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *RestaurantRepository) GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 *domain.Restaurant
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Restaurant)
	}
	return r0, ret.Error(1)
}

func (_m *RestaurantRepository) UpdateProfile(ctx context.Context, rest *domain.Restaurant) error {
	ret := _m.Called(ctx, rest)
	return ret.Error(0)
}

func (_m *RestaurantRepository) SetOpen(ctx context.Context, restaurantID int, open bool) error {
	ret := _m.Called(ctx, restaurantID, open)
	return ret.Error(0)
}

type AccountRepository struct {
	mock.Mock
}

func NewAccountRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountRepository {
	m := &AccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *AccountRepository) CreateOwnerWithRestaurant(ctx context.Context, owner *domain.Owner, rest *domain.Restaurant) error {
	ret := _m.Called(ctx, owner, rest)
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Owner, *domain.Restaurant) error); ok {
		return rf(ctx, owner, rest)
	}
	return ret.Error(0)
}

func (_m *AccountRepository) OwnerByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	ret := _m.Called(ctx, email)
	var r0 *domain.Owner
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Owner)
	}
	return r0, ret.Error(1)
}

func (_m *AccountRepository) UpdatePassword(ctx context.Context, ownerID, passwordHash string) error {
	ret := _m.Called(ctx, ownerID, passwordHash)
	return ret.Error(0)
}

type TokenRevoker struct {
	mock.Mock
}

func (_m *TokenRevoker) Revoke(ctx context.Context, claims *session.Claims) error {
	ret := _m.Called(ctx, claims)
	return ret.Error(0)
}

func (_m *TokenRevoker) RevokeAll(ctx context.Context, accountID string, at time.Time, maxTokenTTL time.Duration) error {
	ret := _m.Called(ctx, accountID, at, maxTokenTTL)
	return ret.Error(0)
}

type IdentityInvalidator struct {
	mock.Mock
}

func (_m *IdentityInvalidator) Invalidate(ctx context.Context, accountID string) error {
	ret := _m.Called(ctx, accountID)
	return ret.Error(0)
}

type OTPStore struct {
	mock.Mock
}

func (_m *OTPStore) SaveOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	ret := _m.Called(ctx, email, code, ttl)
	return ret.Error(0)
}

func (_m *OTPStore) OTP(ctx context.Context, email string) (string, error) {
	ret := _m.Called(ctx, email)
	return ret.String(0), ret.Error(1)
}

func (_m *OTPStore) DeleteOTP(ctx context.Context, email string) error {
	ret := _m.Called(ctx, email)
	return ret.Error(0)
}

type OTPSender struct {
	mock.Mock
}

func (_m *OTPSender) SendRecoveryCode(ctx context.Context, email, code string) error {
	ret := _m.Called(ctx, email, code)
	return ret.Error(0)
}
