package service

import (
	"context"
	"fmt"
	"strings"

	"kantin-dashboard/dashboard-svc/internal/domain"
	"kantin-dashboard/session"
)

const restaurantImageFolder = "restaurant-images"

type RestaurantService struct {
	repo   RestaurantRepository
	images ImageStore
}

func NewRestaurantService(repo RestaurantRepository, images ImageStore) *RestaurantService {
	return &RestaurantService{repo: repo, images: images}
}

func (s *RestaurantService) Get(ctx context.Context, id session.Identity) (*domain.Restaurant, error) {
	if !id.HasRestaurant() {
		return nil, ErrRestaurantNotFound
	}
	return s.repo.GetRestaurant(ctx, id.RestaurantID)
}

func (s *RestaurantService) UpdateProfile(ctx context.Context, id session.Identity, title, subtitle string, image *Upload) (*domain.Restaurant, error) {
	title = strings.TrimSpace(title)
	subtitle = strings.TrimSpace(subtitle)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	if subtitle == "" {
		return nil, invalid("subtitle", "is required")
	}

	rest, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if image == nil && rest.Image == "" {
		return nil, invalid("image", "is required")
	}

	if image != nil {
		ref, err := s.images.Save(ctx, restaurantImageFolder, image)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		rest.Image = ref
	}

	rest.Title = title
	rest.Subtitle = subtitle
	if err := s.repo.UpdateProfile(ctx, rest); err != nil {
		return nil, err
	}
	return rest, nil
}

func (s *RestaurantService) SetOpen(ctx context.Context, id session.Identity, open bool) (*domain.Restaurant, error) {
	if !id.HasRestaurant() {
		return nil, ErrRestaurantNotFound
	}
	if err := s.repo.SetOpen(ctx, id.RestaurantID, open); err != nil {
		return nil, err
	}
	return s.repo.GetRestaurant(ctx, id.RestaurantID)
}
