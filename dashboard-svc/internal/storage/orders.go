package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"

	"github.com/lib/pq"
)

const orderColumns = `
	o.id, o.restaurants_id, COALESCE(o.user_id::text, ''), COALESCE(p.full_name, ''),
	o.created_at, COALESCE(o.original_total, 0), COALESCE(o.used_coin, 0),
	COALESCE(o.total, 0), o.order_status, COALESCE(o.type, ''), COALESCE(o.notes, '')`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	err := row.Scan(&order.ID, &order.RestaurantID, &order.CustomerID, &order.CustomerName,
		&order.CreatedAt, &order.OriginalTotal, &order.UsedCoin,
		&order.Total, &order.Status, &order.Type, &order.Notes)
	return order, err
}

func (r *PostgresRepository) ListOrders(ctx context.Context, restaurantID int, filter domain.OrderFilter) ([]domain.Order, error) {
	conditions := []string{"o.restaurants_id = $1"}
	args := []interface{}{restaurantID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conditions = append(conditions, fmt.Sprintf("o.order_status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("o.created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("o.created_at < $%d", len(args)))
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders o
		LEFT JOIN profiles p ON p.id = o.user_id
		WHERE `+strings.Join(conditions, " AND ")+`
		ORDER BY o.created_at DESC, o.id DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		order.Items = []domain.OrderItem{}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachItems loads every line item of the given orders in one query.
func (r *PostgresRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	index := make(map[int]int, len(orders))
	for i, order := range orders {
		ids[i] = int64(order.ID)
		index[order.ID] = i
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT od.order_id, od.menus_id, COALESCE(m.name, ''), COALESCE(m.price, 0), COALESCE(m.image, ''), od.quantity
		FROM order_dishes od
		JOIN menus m ON m.id = od.menus_id
		WHERE od.order_id = ANY($1)
		ORDER BY od.order_id, od.id
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID int
		var item domain.OrderItem
		if err := rows.Scan(&orderID, &item.MenuID, &item.Name, &item.Price, &item.Image, &item.Quantity); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	return rows.Err()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders o
		LEFT JOIN profiles p ON p.id = o.user_id
		WHERE o.id = $1 AND o.restaurants_id = $2
	`, orderID, restaurantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	orders := []domain.Order{order}
	orders[0].Items = []domain.OrderItem{}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PostgresRepository) WithinTx(ctx context.Context, fn func(tx service.OrderTx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&orderTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", service.ErrCommitUnknown, err)
	}
	return nil
}

type orderTx struct {
	tx *sql.Tx
}

func (t *orderTx) LockOrder(ctx context.Context, restaurantID, orderID int) (*domain.Order, error) {
	order, err := scanOrder(t.tx.QueryRowContext(ctx, `
		SELECT`+orderColumns+`
		FROM orders o
		LEFT JOIN profiles p ON p.id = o.user_id
		WHERE o.id = $1 AND o.restaurants_id = $2
		FOR UPDATE OF o
	`, orderID, restaurantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (t *orderTx) UpdateStatus(ctx context.Context, orderID int, from, to domain.OrderStatus) (int64, error) {
	result, err := t.tx.ExecContext(ctx,
		"UPDATE orders SET order_status = $1 WHERE id = $2 AND order_status = $3",
		string(to), orderID, string(from))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (t *orderTx) IncrementCoins(ctx context.Context, customerID string, delta int) (int, error) {
	var balance int
	err := t.tx.QueryRowContext(ctx,
		"UPDATE profiles SET coins = COALESCE(coins, 0) + $1 WHERE id = $2 RETURNING coins",
		delta, customerID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, service.ErrCustomerNotFound
	}
	return balance, err
}
