package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

var _ ports.RestaurantRepository = (*RestaurantRepository)(nil)

// RestaurantRepository persists the partner-owned restaurant resource.
type RestaurantRepository struct {
	db *sql.DB
}

func NewRestaurantRepository(db *sql.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

const restaurantSelect = `select id, user_id, name, location, menu, coalesce(image_url, ''), created_at, updated_at
from restaurants`

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) (*domain.Restaurant, error) {
	id := uuid.NewString()
	if _, err := r.db.ExecContext(ctx,
		`insert into restaurants (id, user_id, name, location, menu, image_url) values ($1, $2, $3, $4, $5, null)`,
		id, restaurant.UserID, restaurant.Name, restaurant.Location, restaurant.Menu,
	); err != nil {
		return nil, fmt.Errorf("insert restaurant: %w", err)
	}
	return r.findByID(ctx, id)
}

func (r *RestaurantRepository) FindByUserID(ctx context.Context, userID string) (*domain.Restaurant, error) {
	return scanRestaurant(r.db.QueryRowContext(ctx, restaurantSelect+` where user_id = $1`, userID))
}

func (r *RestaurantRepository) FindAll(ctx context.Context) ([]*domain.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx, restaurantSelect+` order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []*domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.UserID, &rest.Name, &rest.Location, &rest.Menu, &rest.ImageURL, &rest.CreatedAt, &rest.UpdatedAt); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, &rest)
	}
	return restaurants, rows.Err()
}

func (r *RestaurantRepository) UpdateMenu(ctx context.Context, userID, menu string) (*domain.Restaurant, error) {
	res, err := r.db.ExecContext(ctx,
		`update restaurants set menu = $1, updated_at = now() where user_id = $2`, menu, userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrRestaurantNotFound
	}
	return r.FindByUserID(ctx, userID)
}

func (r *RestaurantRepository) findByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	return scanRestaurant(r.db.QueryRowContext(ctx, restaurantSelect+` where id = $1`, id))
}

func scanRestaurant(row *sql.Row) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	if err := row.Scan(&rest.ID, &rest.UserID, &rest.Name, &rest.Location, &rest.Menu, &rest.ImageURL, &rest.CreatedAt, &rest.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, err
	}
	return &rest, nil
}
