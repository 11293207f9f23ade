package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/mocks"
	"kantin-dashboard/dashboard-svc/internal/service"
	"kantin-dashboard/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var owner = session.Identity{AccountID: "acc-1", RestaurantID: 5}

type orderFixture struct {
	repo      *mocks.OrderRepository
	tx        *mocks.OrderTx
	cache     *mocks.OrderCache
	publisher *mocks.StatusPublisher
	svc       *service.OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	f := &orderFixture{
		repo:      mocks.NewOrderRepository(t),
		tx:        mocks.NewOrderTx(t),
		cache:     mocks.NewOrderCache(t),
		publisher: mocks.NewStatusPublisher(t),
	}
	f.svc = service.NewOrderService(f.repo, f.cache, f.publisher, &mocks.QRGenerator{}, nil)
	return f
}

// runTx makes WithinTx execute its callback against the fixture's OrderTx and
// then return commitErr.
func (f *orderFixture) runTx(commitErr error) {
	f.repo.On("WithinTx", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, fn func(service.OrderTx) error) error {
			if err := fn(f.tx); err != nil {
				return err
			}
			return commitErr
		}).Once()
}

func TestOrderService_UpdateStatus_LoyaltyScenarios(t *testing.T) {
	tests := []struct {
		name      string
		order     domain.Order
		to        domain.OrderStatus
		wantDelta int
	}{
		{
			name:      "completing order 42 credits 200 coins",
			order:     domain.Order{ID: 42, RestaurantID: 5, CustomerID: "cust-42", Total: 20000, Status: domain.StatusReadyForPickup},
			to:        domain.StatusCompleted,
			wantDelta: 200,
		},
		{
			name:      "cancelling order 7 refunds 150 coins",
			order:     domain.Order{ID: 7, RestaurantID: 5, CustomerID: "cust-7", Total: 4850, UsedCoin: 150, Status: domain.StatusNew},
			to:        domain.StatusCancelled,
			wantDelta: 150,
		},
		{
			name:      "completing a small order credits nothing",
			order:     domain.Order{ID: 8, RestaurantID: 5, CustomerID: "cust-8", Total: 9000, Status: domain.StatusReadyForPickup},
			to:        domain.StatusCompleted,
			wantDelta: 0,
		},
		{
			name:      "cooking leaves the balance alone",
			order:     domain.Order{ID: 9, RestaurantID: 5, CustomerID: "cust-9", Total: 30000, UsedCoin: 20, Status: domain.StatusNew},
			to:        domain.StatusCooking,
			wantDelta: 0,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			locked := testCase.order
			from := locked.Status

			f.runTx(nil)
			f.tx.On("LockOrder", mock.Anything, 5, locked.ID).Return(&locked, nil).Once()
			f.tx.On("UpdateStatus", mock.Anything, locked.ID, from, testCase.to).Return(int64(1), nil).Once()
			if testCase.wantDelta != 0 {
				f.tx.On("IncrementCoins", mock.Anything, locked.CustomerID, testCase.wantDelta).Return(1000+testCase.wantDelta, nil).Once()
			}
			f.cache.On("PatchStatus", mock.Anything, 5, locked.ID, testCase.to).Return(nil).Once()
			f.publisher.On("PublishStatusChange", mock.Anything, mock.MatchedBy(func(e domain.StatusEvent) bool {
				return e.Type == domain.StatusChangedEvent &&
					e.OrderID == locked.ID &&
					e.From == from &&
					e.To == testCase.to &&
					e.CoinDelta == testCase.wantDelta
			})).Return(nil).Once()

			updated, err := f.svc.UpdateStatus(context.Background(), owner, locked.ID, testCase.to)
			require.NoError(t, err)
			assert.Equal(t, testCase.to, updated.Status)
			assert.Equal(t, locked.ID, updated.ID)
		})
	}
}

func TestOrderService_UpdateStatus_Failures(t *testing.T) {
	tests := []struct {
		name    string
		to      domain.OrderStatus
		setup   func(f *orderFixture)
		wantErr error
	}{
		{
			name:    "unknown target status",
			to:      "SHIPPED",
			setup:   func(f *orderFixture) {},
			wantErr: service.ErrInvalidTransition,
		},
		{
			name: "order of another restaurant",
			to:   domain.StatusCooking,
			setup: func(f *orderFixture) {
				f.runTx(nil)
				f.tx.On("LockOrder", mock.Anything, 5, 11).Return(nil, service.ErrOrderNotFound).Once()
			},
			wantErr: service.ErrOrderNotFound,
		},
		{
			name: "terminal order",
			to:   domain.StatusCooking,
			setup: func(f *orderFixture) {
				f.runTx(nil)
				f.tx.On("LockOrder", mock.Anything, 5, 11).
					Return(&domain.Order{ID: 11, RestaurantID: 5, Status: domain.StatusCompleted}, nil).Once()
			},
			wantErr: service.ErrInvalidTransition,
		},
		{
			name: "skipping a step",
			to:   domain.StatusCompleted,
			setup: func(f *orderFixture) {
				f.runTx(nil)
				f.tx.On("LockOrder", mock.Anything, 5, 11).
					Return(&domain.Order{ID: 11, RestaurantID: 5, Status: domain.StatusNew}, nil).Once()
			},
			wantErr: service.ErrInvalidTransition,
		},
		{
			name: "guarded update matched no row",
			to:   domain.StatusCooking,
			setup: func(f *orderFixture) {
				f.runTx(nil)
				f.tx.On("LockOrder", mock.Anything, 5, 11).
					Return(&domain.Order{ID: 11, RestaurantID: 5, Status: domain.StatusNew}, nil).Once()
				f.tx.On("UpdateStatus", mock.Anything, 11, domain.StatusNew, domain.StatusCooking).Return(int64(0), nil).Once()
			},
			wantErr: service.ErrStatusConflict,
		},
		{
			name: "missing balance record rolls back",
			to:   domain.StatusCancelled,
			setup: func(f *orderFixture) {
				f.runTx(nil)
				f.tx.On("LockOrder", mock.Anything, 5, 11).
					Return(&domain.Order{ID: 11, RestaurantID: 5, CustomerID: "gone", UsedCoin: 50, Status: domain.StatusNew}, nil).Once()
				f.tx.On("UpdateStatus", mock.Anything, 11, domain.StatusNew, domain.StatusCancelled).Return(int64(1), nil).Once()
				f.tx.On("IncrementCoins", mock.Anything, "gone", 50).Return(0, service.ErrCustomerNotFound).Once()
			},
			wantErr: service.ErrCustomerNotFound,
		},
		{
			name: "storage failure",
			to:   domain.StatusCooking,
			setup: func(f *orderFixture) {
				f.repo.On("WithinTx", mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			testCase.setup(f)

			updated, err := f.svc.UpdateStatus(context.Background(), owner, 11, testCase.to)
			assert.Nil(t, updated)
			require.Error(t, err)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			}
			var partial *service.PartialUpdateError
			assert.False(t, errors.As(err, &partial))
		})
	}
}

func TestOrderService_UpdateStatus_UnknownCommit(t *testing.T) {
	f := newOrderFixture(t)
	f.runTx(fmt.Errorf("%w: driver: bad connection", service.ErrCommitUnknown))
	f.tx.On("LockOrder", mock.Anything, 5, 42).
		Return(&domain.Order{ID: 42, RestaurantID: 5, CustomerID: "cust-42", Total: 20000, Status: domain.StatusReadyForPickup}, nil).Once()
	f.tx.On("UpdateStatus", mock.Anything, 42, domain.StatusReadyForPickup, domain.StatusCompleted).Return(int64(1), nil).Once()
	f.tx.On("IncrementCoins", mock.Anything, "cust-42", 200).Return(200, nil).Once()

	_, err := f.svc.UpdateStatus(context.Background(), owner, 42, domain.StatusCompleted)

	var partial *service.PartialUpdateError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 42, partial.OrderID)
	assert.Equal(t, domain.StatusCompleted, partial.Target)
	assert.Contains(t, err.Error(), "order 42")
}

func TestOrderService_UpdateStatus_PostCommitFailuresAreNotReported(t *testing.T) {
	f := newOrderFixture(t)
	f.runTx(nil)
	f.tx.On("LockOrder", mock.Anything, 5, 3).
		Return(&domain.Order{ID: 3, RestaurantID: 5, Status: domain.StatusCooking}, nil).Once()
	f.tx.On("UpdateStatus", mock.Anything, 3, domain.StatusCooking, domain.StatusReadyForPickup).Return(int64(1), nil).Once()
	f.cache.On("PatchStatus", mock.Anything, 5, 3, domain.StatusReadyForPickup).Return(errors.New("redis down")).Once()
	f.publisher.On("PublishStatusChange", mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()

	updated, err := f.svc.UpdateStatus(context.Background(), owner, 3, domain.StatusReadyForPickup)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReadyForPickup, updated.Status)
}

func TestOrderService_UpdateStatus_WithoutRestaurant(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), session.Identity{AccountID: "acc-2"}, 1, domain.StatusCooking)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderService_List(t *testing.T) {
	orders := []domain.Order{
		{ID: 2, RestaurantID: 5, Status: domain.StatusNew, Items: []domain.OrderItem{}},
		{ID: 1, RestaurantID: 5, Status: domain.StatusCompleted, Items: []domain.OrderItem{}},
	}
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		id     session.Identity
		filter domain.OrderFilter
		setup  func(f *orderFixture)
		want   []domain.Order
	}{
		{
			name:  "no restaurant answers empty",
			id:    session.Identity{AccountID: "acc-2"},
			setup: func(f *orderFixture) {},
			want:  []domain.Order{},
		},
		{
			name: "cache hit",
			id:   owner,
			setup: func(f *orderFixture) {
				f.cache.On("Orders", mock.Anything, 5).Return(orders, true, nil).Once()
			},
			want: orders,
		},
		{
			name: "cache miss fills with the version read before the query",
			id:   owner,
			setup: func(f *orderFixture) {
				f.cache.On("Orders", mock.Anything, 5).Return(nil, false, nil).Once()
				f.cache.On("Version", mock.Anything, 5).Return(int64(3), nil).Once()
				f.repo.On("ListOrders", mock.Anything, 5, domain.OrderFilter{}).Return(orders, nil).Once()
				f.cache.On("StoreOrders", mock.Anything, 5, int64(3), orders).Return(true, nil).Once()
			},
			want: orders,
		},
		{
			name: "stale fill is discarded but still answered",
			id:   owner,
			setup: func(f *orderFixture) {
				f.cache.On("Orders", mock.Anything, 5).Return(nil, false, nil).Once()
				f.cache.On("Version", mock.Anything, 5).Return(int64(3), nil).Once()
				f.repo.On("ListOrders", mock.Anything, 5, domain.OrderFilter{}).Return(orders, nil).Once()
				f.cache.On("StoreOrders", mock.Anything, 5, int64(3), orders).Return(false, nil).Once()
			},
			want: orders,
		},
		{
			name: "cache read failure falls through to the database",
			id:   owner,
			setup: func(f *orderFixture) {
				f.cache.On("Orders", mock.Anything, 5).Return(nil, false, errors.New("redis down")).Once()
				f.cache.On("Version", mock.Anything, 5).Return(int64(0), errors.New("redis down")).Once()
				f.repo.On("ListOrders", mock.Anything, 5, domain.OrderFilter{}).Return(orders, nil).Once()
			},
			want: orders,
		},
		{
			name:   "fresh read skips the cached list",
			id:     owner,
			filter: domain.OrderFilter{Fresh: true},
			setup: func(f *orderFixture) {
				f.cache.On("Version", mock.Anything, 5).Return(int64(8), nil).Once()
				f.repo.On("ListOrders", mock.Anything, 5, domain.OrderFilter{Fresh: true}).Return(orders, nil).Once()
				f.cache.On("StoreOrders", mock.Anything, 5, int64(8), orders).Return(true, nil).Once()
			},
			want: orders,
		},
		{
			name:   "filtered reads bypass the cache",
			id:     owner,
			filter: domain.OrderFilter{Status: domain.StatusNew, From: &from},
			setup: func(f *orderFixture) {
				f.repo.On("ListOrders", mock.Anything, 5, domain.OrderFilter{Status: domain.StatusNew, From: &from}).
					Return(orders[:1], nil).Once()
			},
			want: orders[:1],
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newOrderFixture(t)
			testCase.setup(f)

			got, err := f.svc.List(context.Background(), testCase.id, testCase.filter)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestOrderService_Get(t *testing.T) {
	cached := []domain.Order{{ID: 4, RestaurantID: 5, Status: domain.StatusCooking}}

	t.Run("served from cached list", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.On("Orders", mock.Anything, 5).Return(cached, true, nil).Once()

		order, err := f.svc.Get(context.Background(), owner, 4)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCooking, order.Status)
	})

	t.Run("falls back to the repository", func(t *testing.T) {
		f := newOrderFixture(t)
		f.cache.On("Orders", mock.Anything, 5).Return(cached, true, nil).Once()
		f.repo.On("GetOrder", mock.Anything, 5, 9).Return(nil, service.ErrOrderNotFound).Once()

		_, err := f.svc.Get(context.Background(), owner, 9)
		assert.ErrorIs(t, err, service.ErrOrderNotFound)
	})
}

func TestOrderService_QRCode(t *testing.T) {
	f := newOrderFixture(t)
	qr := &mocks.QRGenerator{}
	svc := service.NewOrderService(f.repo, nil, nil, qr, nil)

	f.repo.On("GetOrder", mock.Anything, 5, 4).Return(&domain.Order{ID: 4, RestaurantID: 5}, nil).Once()
	qr.On("Generate", 4).Return([]byte("png"), nil).Once()

	png, err := svc.QRCode(context.Background(), owner, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
	qr.AssertExpectations(t)
}

func TestDefaultQRGenerator_EncodesPNG(t *testing.T) {
	png, err := service.DefaultQRGenerator{BaseURL: "http://localhost:8080"}.Generate(42)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestPublishers_JoinsErrors(t *testing.T) {
	first := mocks.NewStatusPublisher(t)
	second := mocks.NewStatusPublisher(t)
	event := domain.StatusEvent{OrderID: 1}

	first.On("PublishStatusChange", mock.Anything, event).Return(errors.New("kafka down")).Once()
	second.On("PublishStatusChange", mock.Anything, event).Return(nil).Once()

	err := service.Publishers{first, second}.PublishStatusChange(context.Background(), event)
	assert.EqualError(t, err, "kafka down")
}
