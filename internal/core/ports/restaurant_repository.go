package ports

import (
	"context"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// RestaurantRepository defines persistence operations for restaurants.
type RestaurantRepository interface {
	Create(ctx context.Context, r *domain.Restaurant) (*domain.Restaurant, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Restaurant, error)
	FindAll(ctx context.Context) ([]*domain.Restaurant, error)
	UpdateMenu(ctx context.Context, userID, menu string) (*domain.Restaurant, error)
}
