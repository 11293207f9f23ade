package tests

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"
	"kantin-dashboard/dashboard-svc/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{
	"id", "restaurants_id", "user_id", "full_name", "created_at", "original_total",
	"used_coin", "total", "order_status", "type", "notes",
}

func newMockRepo(t *testing.T) (*storage.PostgresRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return storage.NewPostgresRepository(db), mock
}

func TestPostgresRepository_ListOrders(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM orders o\\s+LEFT JOIN profiles p").
		WithArgs(5, "NEW").
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(2, 5, "cust-1", "Ani", created, 20000.0, 0, 20000.0, "NEW", "DINE_IN", "").
			AddRow(1, 5, "", "", created.Add(-time.Hour), 5000.0, 100, 4900.0, "NEW", "TAKEAWAY", "pedas"))
	mock.ExpectQuery("FROM order_dishes od").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "menus_id", "name", "price", "image", "quantity"}).
			AddRow(1, 10, "Es Teh", 5000.0, "", 1).
			AddRow(2, 11, "Nasi Goreng", 15000.0, "n.png", 1).
			AddRow(2, 10, "Es Teh", 5000.0, "", 1))

	orders, err := repo.ListOrders(context.Background(), 5, domain.OrderFilter{Status: domain.StatusNew})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "Ani", orders[0].CustomerName)
	assert.Equal(t, domain.StatusNew, orders[0].Status)
	assert.Len(t, orders[0].Items, 2)
	assert.Len(t, orders[1].Items, 1)
	assert.Equal(t, 100, orders[1].UsedCoin)
}

func TestPostgresRepository_ListOrders_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM orders o").WithArgs(5).WillReturnRows(sqlmock.NewRows(orderRowColumns))

	orders, err := repo.ListOrders(context.Background(), 5, domain.OrderFilter{})
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestPostgresRepository_GetOrder_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("WHERE o.id = \\$1 AND o.restaurants_id = \\$2").
		WithArgs(9, 5).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetOrder(context.Background(), 5, 9)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func lockedOrderRows(id int, customer string, usedCoin int, total float64, status domain.OrderStatus) *sqlmock.Rows {
	return sqlmock.NewRows(orderRowColumns).
		AddRow(id, 5, customer, "Ani", time.Now(), total+float64(usedCoin), usedCoin, total, string(status), "DINE_IN", "")
}

func TestStatusTransition_AgainstPostgres(t *testing.T) {
	tests := []struct {
		name    string
		orderID int
		prepare func(sqlmock.Sqlmock)
		to      domain.OrderStatus
		check   func(t *testing.T, order *domain.Order, err error)
	}{
		{
			name:    "order 42 completes and credits 200 coins",
			orderID: 42,
			to:      domain.StatusCompleted,
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("FOR UPDATE OF o").WithArgs(42, 5).
					WillReturnRows(lockedOrderRows(42, "cust-42", 0, 20000, domain.StatusReadyForPickup))
				mock.ExpectExec("UPDATE orders SET order_status").
					WithArgs("COMPLETED", 42, "READY_FOR_PICKUP").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("UPDATE profiles SET coins").WithArgs(200, "cust-42").
					WillReturnRows(sqlmock.NewRows([]string{"coins"}).AddRow(1200))
				mock.ExpectCommit()
			},
			check: func(t *testing.T, order *domain.Order, err error) {
				require.NoError(t, err)
				assert.Equal(t, domain.StatusCompleted, order.Status)
			},
		},
		{
			name:    "order 7 cancels and refunds 150 coins",
			orderID: 7,
			to:      domain.StatusCancelled,
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("FOR UPDATE OF o").WithArgs(7, 5).
					WillReturnRows(lockedOrderRows(7, "cust-7", 150, 4850, domain.StatusNew))
				mock.ExpectExec("UPDATE orders SET order_status").
					WithArgs("CANCELLED", 7, "NEW").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("UPDATE profiles SET coins").WithArgs(150, "cust-7").
					WillReturnRows(sqlmock.NewRows([]string{"coins"}).AddRow(150))
				mock.ExpectCommit()
			},
			check: func(t *testing.T, order *domain.Order, err error) {
				require.NoError(t, err)
				assert.Equal(t, domain.StatusCancelled, order.Status)
			},
		},
		{
			name:    "missing balance record rolls the status back",
			orderID: 7,
			to:      domain.StatusCancelled,
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("FOR UPDATE OF o").WithArgs(7, 5).
					WillReturnRows(lockedOrderRows(7, "cust-7", 150, 4850, domain.StatusNew))
				mock.ExpectExec("UPDATE orders SET order_status").
					WithArgs("CANCELLED", 7, "NEW").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("UPDATE profiles SET coins").WithArgs(150, "cust-7").
					WillReturnRows(sqlmock.NewRows([]string{"coins"}))
				mock.ExpectRollback()
			},
			check: func(t *testing.T, order *domain.Order, err error) {
				assert.ErrorIs(t, err, service.ErrCustomerNotFound)
			},
		},
		{
			name:    "concurrent change loses the guarded update",
			orderID: 3,
			to:      domain.StatusCooking,
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("FOR UPDATE OF o").WithArgs(3, 5).
					WillReturnRows(lockedOrderRows(3, "cust-3", 0, 10000, domain.StatusNew))
				mock.ExpectExec("UPDATE orders SET order_status").
					WithArgs("COOKING", 3, "NEW").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			check: func(t *testing.T, order *domain.Order, err error) {
				assert.ErrorIs(t, err, service.ErrStatusConflict)
			},
		},
		{
			name:    "illegal edge writes nothing",
			orderID: 3,
			to:      domain.StatusCompleted,
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("FOR UPDATE OF o").WithArgs(3, 5).
					WillReturnRows(lockedOrderRows(3, "cust-3", 0, 10000, domain.StatusNew))
				mock.ExpectRollback()
			},
			check: func(t *testing.T, order *domain.Order, err error) {
				assert.ErrorIs(t, err, service.ErrInvalidTransition)
			},
		},
		{
			name:    "failed commit reports a partial update",
			orderID: 42,
			to:      domain.StatusCompleted,
			prepare: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery("FOR UPDATE OF o").WithArgs(42, 5).
					WillReturnRows(lockedOrderRows(42, "cust-42", 0, 20000, domain.StatusReadyForPickup))
				mock.ExpectExec("UPDATE orders SET order_status").
					WithArgs("COMPLETED", 42, "READY_FOR_PICKUP").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery("UPDATE profiles SET coins").WithArgs(200, "cust-42").
					WillReturnRows(sqlmock.NewRows([]string{"coins"}).AddRow(1200))
				mock.ExpectCommit().WillReturnError(errors.New("connection reset"))
			},
			check: func(t *testing.T, order *domain.Order, err error) {
				var partial *service.PartialUpdateError
				require.ErrorAs(t, err, &partial)
				assert.Equal(t, 42, partial.OrderID)
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			testCase.prepare(mock)
			svc := service.NewOrderService(repo, nil, nil, nil, nil)

			order, err := svc.UpdateStatus(context.Background(), owner, testCase.orderID, testCase.to)
			testCase.check(t, order, err)
		})
	}
}

var menuRowColumns = []string{"id", "restaurants_id", "name", "description", "price", "category", "is_available", "image", "created_at"}

func TestPostgresRepository_Menus(t *testing.T) {
	ctx := context.Background()

	t.Run("list with filters", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("FROM menus\\s+WHERE restaurants_id = \\$1 AND NOT is_deleted AND category = \\$2 AND name ILIKE \\$3").
			WithArgs(5, "MINUMAN", "%teh%").
			WillReturnRows(sqlmock.NewRows(menuRowColumns).
				AddRow(1, 5, "Es Teh", "", 5000, "MINUMAN", true, "", time.Now()))

		items, err := repo.ListMenus(ctx, 5, domain.MenuFilter{Category: "MINUMAN", Search: " teh "})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, domain.CategoryDrink, items[0].Category)
	})

	t.Run("create returns id", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("INSERT INTO menus").
			WithArgs(5, "Sate", "", 20000, "MAKANAN", true, "").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(31, time.Now()))

		item := &domain.MenuItem{RestaurantID: 5, Name: "Sate", Price: 20000, Category: domain.CategoryFood, IsAvailable: true}
		require.NoError(t, repo.CreateMenu(ctx, item))
		assert.Equal(t, 31, item.ID)
	})

	t.Run("update of a vanished row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("UPDATE menus").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateMenu(ctx, &domain.MenuItem{ID: 3, RestaurantID: 5})
		assert.ErrorIs(t, err, service.ErrMenuNotFound)
	})

	t.Run("toggle flips availability", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SET is_available = NOT is_available").WithArgs(3, 5).
			WillReturnRows(sqlmock.NewRows([]string{"is_available"}).AddRow(false))

		available, err := repo.ToggleAvailability(ctx, 5, 3)
		require.NoError(t, err)
		assert.False(t, available)
	})

	t.Run("toggle of another restaurant's item", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SET is_available = NOT is_available").WithArgs(3, 5).
			WillReturnRows(sqlmock.NewRows([]string{"is_available"}))

		_, err := repo.ToggleAvailability(ctx, 5, 3)
		assert.ErrorIs(t, err, service.ErrMenuNotFound)
	})

	t.Run("get missing item", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("FROM menus WHERE id = \\$1 AND NOT is_deleted").WithArgs(3).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetMenu(ctx, 3)
		assert.ErrorIs(t, err, service.ErrMenuNotFound)
	})

	t.Run("delete hides the row instead of removing it", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("UPDATE menus SET is_deleted = TRUE, is_available = FALSE\\s+WHERE id = \\$1 AND restaurants_id = \\$2 AND NOT is_deleted").
			WithArgs(3, 5).WillReturnResult(sqlmock.NewResult(0, 1))

		rows, err := repo.DeleteMenu(ctx, 5, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)
	})
}

func TestPostgresRepository_Accounts(t *testing.T) {
	ctx := context.Background()
	owner := &domain.Owner{ID: "8b1c", Username: "budi", Email: "budi@example.com", PasswordHash: "hash"}

	t.Run("owner and restaurant in one transaction", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO owner").WithArgs("8b1c", "budi", "budi@example.com", "hash").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectQuery("INSERT INTO restaurants").WithArgs("8b1c", "Warung", "Kantin", "r.png", true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))
		mock.ExpectCommit()

		rest := &domain.Restaurant{Title: "Warung", Subtitle: "Kantin", Image: "r.png", IsOpen: true}
		require.NoError(t, repo.CreateOwnerWithRestaurant(ctx, owner, rest))
		assert.Equal(t, 9, rest.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO owner").WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()

		err := repo.CreateOwnerWithRestaurant(ctx, owner, &domain.Restaurant{})
		assert.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("FROM owner").WithArgs("ghost@example.com").WillReturnError(sql.ErrNoRows)

		_, err := repo.OwnerByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, service.ErrAccountNotFound)
	})

	t.Run("open flag of a missing restaurant", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec("UPDATE restaurants SET is_open").WithArgs(false, 5).WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetOpen(ctx, 5, false), service.ErrRestaurantNotFound)
	})
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	for i := 0; i < 10; i++ {
		mock.ExpectExec("(CREATE (TABLE|INDEX)|ALTER TABLE menus ADD COLUMN) IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	assert.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestLocalImageStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewLocalImageStore(dir, "http://localhost:8080/")

	ref, err := store.Save(context.Background(), "menu-images/5", &service.Upload{
		Reader:      strings.NewReader("png-bytes"),
		ContentType: "image/png",
		Filename:    "../../etc/passwd",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "http://localhost:8080/uploads/menu-images/5/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	written, err := os.ReadFile(filepath.Join(dir, "menu-images", "5", filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(written))

	_, err = store.Save(context.Background(), "menu-images/5", &service.Upload{
		Reader:      strings.NewReader("<svg/>"),
		ContentType: "image/svg+xml",
	})
	assert.Error(t, err)
}
