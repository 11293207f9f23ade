package service

import (
	"context"
	"fmt"
	"strconv"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/session"

	"go.uber.org/zap"
)

const menuImageFolder = "menu-images"

type MenuService struct {
	repo   MenuRepository
	images ImageStore
	logger *zap.Logger
}

func NewMenuService(repo MenuRepository, images ImageStore, logger *zap.Logger) *MenuService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuService{repo: repo, images: images, logger: logger}
}

func (s *MenuService) List(ctx context.Context, id session.Identity, filter domain.MenuFilter) ([]domain.MenuItem, error) {
	if !id.HasRestaurant() {
		return []domain.MenuItem{}, nil
	}
	return s.repo.ListMenus(ctx, id.RestaurantID, filter)
}

func (s *MenuService) Create(ctx context.Context, id session.Identity, input domain.MenuInput, image *Upload) (*domain.MenuItem, error) {
	item, err := ValidateMenuInput(input)
	if err != nil {
		return nil, err
	}
	if !id.HasRestaurant() {
		return nil, ErrRestaurantNotFound
	}

	if image != nil {
		if item.Image, err = s.upload(ctx, id.RestaurantID, image); err != nil {
			return nil, err
		}
	}

	item.RestaurantID = id.RestaurantID
	item.IsAvailable = true
	if err := s.repo.CreateMenu(ctx, &item); err != nil {
		return nil, err
	}

	s.logger.Info("menu item created", zap.Int("menu_id", item.ID), zap.Int("restaurant_id", item.RestaurantID))
	return &item, nil
}

func (s *MenuService) Update(ctx context.Context, id session.Identity, menuID int, input domain.MenuInput, image *Upload) (*domain.MenuItem, error) {
	fields, err := ValidateMenuInput(input)
	if err != nil {
		return nil, err
	}
	item, err := s.owned(ctx, id, menuID)
	if err != nil {
		return nil, err
	}

	if image != nil {
		if item.Image, err = s.upload(ctx, id.RestaurantID, image); err != nil {
			return nil, err
		}
	}

	item.Name = fields.Name
	item.Description = fields.Description
	item.Price = fields.Price
	item.Category = fields.Category
	if err := s.repo.UpdateMenu(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, id session.Identity, menuID int) error {
	if _, err := s.owned(ctx, id, menuID); err != nil {
		return err
	}
	rows, err := s.repo.DeleteMenu(ctx, id.RestaurantID, menuID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMenuNotFound
	}
	s.logger.Info("menu item deleted", zap.Int("menu_id", menuID), zap.Int("restaurant_id", id.RestaurantID))
	return nil
}

func (s *MenuService) ToggleAvailability(ctx context.Context, id session.Identity, menuID int) (bool, error) {
	if _, err := s.owned(ctx, id, menuID); err != nil {
		return false, err
	}
	return s.repo.ToggleAvailability(ctx, id.RestaurantID, menuID)
}

// owned loads the item and re-checks that it belongs to the caller.
func (s *MenuService) owned(ctx context.Context, id session.Identity, menuID int) (*domain.MenuItem, error) {
	if !id.HasRestaurant() {
		return nil, ErrMenuNotFound
	}
	item, err := s.repo.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if item.RestaurantID != id.RestaurantID {
		s.logger.Warn("menu ownership mismatch",
			zap.Int("menu_id", menuID),
			zap.Int("restaurant_id", id.RestaurantID),
			zap.String("account_id", id.AccountID))
		return nil, ErrMenuNotFound
	}
	return item, nil
}

func (s *MenuService) upload(ctx context.Context, restaurantID int, image *Upload) (string, error) {
	ref, err := s.images.Save(ctx, menuImageFolder+"/"+strconv.Itoa(restaurantID), image)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return ref, nil
}
