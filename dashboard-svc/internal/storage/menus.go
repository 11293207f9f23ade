package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"
)

const menuColumns = `id, restaurants_id, name, COALESCE(description, ''), price, category,
	is_available, COALESCE(image, ''), created_at`

func scanMenu(row rowScanner) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Description, &item.Price,
		&item.Category, &item.IsAvailable, &item.Image, &item.CreatedAt)
	return item, err
}

func (r *PostgresRepository) ListMenus(ctx context.Context, restaurantID int, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	conditions := []string{"restaurants_id = $1", "NOT is_deleted"}
	args := []interface{}{restaurantID}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuColumns+`
		FROM menus
		WHERE `+strings.Join(conditions, " AND ")+`
		ORDER BY created_at DESC, id DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.MenuItem{}
	for rows.Next() {
		item, err := scanMenu(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetMenu(ctx context.Context, menuID int) (*domain.MenuItem, error) {
	item, err := scanMenu(r.DB.QueryRowContext(ctx,
		"SELECT "+menuColumns+" FROM menus WHERE id = $1 AND NOT is_deleted", menuID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateMenu(ctx context.Context, item *domain.MenuItem) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menus (restaurants_id, name, description, price, category, is_available, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, item.RestaurantID, item.Name, item.Description, item.Price, string(item.Category), item.IsAvailable, item.Image).
		Scan(&item.ID, &item.CreatedAt)
}

func (r *PostgresRepository) UpdateMenu(ctx context.Context, item *domain.MenuItem) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE menus
		SET name = $1, description = $2, price = $3, category = $4, image = $5
		WHERE id = $6 AND restaurants_id = $7 AND NOT is_deleted
	`, item.Name, item.Description, item.Price, string(item.Category), item.Image, item.ID, item.RestaurantID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return service.ErrMenuNotFound
	}
	return nil
}

// DeleteMenu hides the item. The row stays so past orders keep their lines.
func (r *PostgresRepository) DeleteMenu(ctx context.Context, restaurantID, menuID int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE menus SET is_deleted = TRUE, is_available = FALSE
		WHERE id = $1 AND restaurants_id = $2 AND NOT is_deleted
	`, menuID, restaurantID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) ToggleAvailability(ctx context.Context, restaurantID, menuID int) (bool, error) {
	var available bool
	err := r.DB.QueryRowContext(ctx, `
		UPDATE menus SET is_available = NOT is_available
		WHERE id = $1 AND restaurants_id = $2 AND NOT is_deleted
		RETURNING is_available
	`, menuID, restaurantID).Scan(&available)
	if errors.Is(err, sql.ErrNoRows) {
		return false, service.ErrMenuNotFound
	}
	return available, err
}
