package service

import (
	"context"

	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

// RestaurantService implements the restaurant resource use cases. Ownership
// is implicit: every operation is scoped to the authenticated user's id.
type RestaurantService struct {
	restaurants ports.RestaurantRepository
	users       ports.UserRepository
}

func NewRestaurantService(restaurants ports.RestaurantRepository, users ports.UserRepository) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, users: users}
}

// Create registers a restaurant under the authenticated user.
func (s *RestaurantService) Create(ctx context.Context, input ports.CreateRestaurantInput) (*domain.Restaurant, error) {
	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		return nil, err
	}

	return s.restaurants.Create(ctx, &domain.Restaurant{
		UserID:   input.UserID,
		Name:     input.Name,
		Location: input.Location,
		Menu:     input.Menu,
	})
}

// GetByOwner returns the restaurant owned by the given user.
func (s *RestaurantService) GetByOwner(ctx context.Context, userID string) (*domain.Restaurant, error) {
	return s.restaurants.FindByUserID(ctx, userID)
}

// ListAll returns every restaurant. An empty store is reported as not found.
func (s *RestaurantService) ListAll(ctx context.Context) ([]*domain.Restaurant, error) {
	restaurants, err := s.restaurants.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return nil, domain.ErrRestaurantNotFound
	}
	return restaurants, nil
}

// UpdateMenu replaces the menu of the user's restaurant.
func (s *RestaurantService) UpdateMenu(ctx context.Context, userID, menu string) (*domain.Restaurant, error) {
	return s.restaurants.UpdateMenu(ctx, userID, menu)
}
