package ports

import (
	"context"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// CreateRestaurantInput carries the fields for registering a restaurant
// under the authenticated user.
type CreateRestaurantInput struct {
	UserID   string
	Name     string
	Location string
	Menu     string
}

// RestaurantService defines the restaurant resource use cases.
type RestaurantService interface {
	Create(ctx context.Context, input CreateRestaurantInput) (*domain.Restaurant, error)
	GetByOwner(ctx context.Context, userID string) (*domain.Restaurant, error)
	ListAll(ctx context.Context) ([]*domain.Restaurant, error)
	UpdateMenu(ctx context.Context, userID, menu string) (*domain.Restaurant, error)
}
