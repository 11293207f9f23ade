package storage

import (
	"context"
	"database/sql"
	"errors"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/dashboard-svc/internal/service"
)

func (r *PostgresRepository) GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, COALESCE(owner_id::text, ''), title, COALESCE(subtitle, ''), COALESCE(image, ''), is_open, created_at
		FROM restaurants
		WHERE id = $1
	`, restaurantID).Scan(&rest.ID, &rest.OwnerID, &rest.Title, &rest.Subtitle, &rest.Image, &rest.IsOpen, &rest.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, rest *domain.Restaurant) error {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE restaurants SET title = $1, subtitle = $2, image = $3 WHERE id = $4",
		rest.Title, rest.Subtitle, rest.Image, rest.ID)
	return expectRow(result, err, service.ErrRestaurantNotFound)
}

func (r *PostgresRepository) SetOpen(ctx context.Context, restaurantID int, open bool) error {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE restaurants SET is_open = $1 WHERE id = $2", open, restaurantID)
	return expectRow(result, err, service.ErrRestaurantNotFound)
}

// CreateOwnerWithRestaurant inserts the account and its restaurant atomically.
func (r *PostgresRepository) CreateOwnerWithRestaurant(ctx context.Context, owner *domain.Owner, rest *domain.Restaurant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO owner (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, owner.ID, owner.Username, owner.Email, owner.PasswordHash).Scan(&owner.CreatedAt)
	if isUniqueViolation(err) {
		return service.ErrEmailTaken
	}
	if err != nil {
		return err
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO restaurants (owner_id, title, subtitle, image, is_open)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, owner.ID, rest.Title, rest.Subtitle, rest.Image, rest.IsOpen).Scan(&rest.ID, &rest.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) OwnerByEmail(ctx context.Context, email string) (*domain.Owner, error) {
	var owner domain.Owner
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM owner
		WHERE email = $1
	`, email).Scan(&owner.ID, &owner.Username, &owner.Email, &owner.PasswordHash, &owner.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, ownerID, passwordHash string) error {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE owner SET password_hash = $1 WHERE id = $2", passwordHash, ownerID)
	return expectRow(result, err, service.ErrAccountNotFound)
}

func expectRow(result sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
