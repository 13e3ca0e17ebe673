package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

type stubRestaurantRepo struct {
	byUser map[string]*domain.Restaurant
}

func newStubRestaurantRepo() *stubRestaurantRepo {
	return &stubRestaurantRepo{byUser: make(map[string]*domain.Restaurant)}
}

func (r *stubRestaurantRepo) Create(_ context.Context, rest *domain.Restaurant) (*domain.Restaurant, error) {
	clone := *rest
	clone.ID = "rest-" + rest.UserID
	r.byUser[rest.UserID] = &clone
	out := clone
	return &out, nil
}

func (r *stubRestaurantRepo) FindByUserID(_ context.Context, userID string) (*domain.Restaurant, error) {
	rest, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	clone := *rest
	return &clone, nil
}

func (r *stubRestaurantRepo) FindAll(_ context.Context) ([]*domain.Restaurant, error) {
	var out []*domain.Restaurant
	for _, rest := range r.byUser {
		clone := *rest
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubRestaurantRepo) UpdateMenu(_ context.Context, userID, menu string) (*domain.Restaurant, error) {
	rest, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrRestaurantNotFound
	}
	rest.Menu = menu
	clone := *rest
	return &clone, nil
}

func TestRestaurantService_Create(t *testing.T) {
	users := newStubUserRepo()
	users.addUser(t, verifiedUser("user-1", "a@example.com"), "pw")
	repo := newStubRestaurantRepo()
	svc := NewRestaurantService(repo, users)

	rest, err := svc.Create(context.Background(), ports.CreateRestaurantInput{
		UserID:   "user-1",
		Name:     "Warung Satu",
		Location: "Jakarta",
		Menu:     "nasi goreng",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rest.UserID != "user-1" || rest.Name != "Warung Satu" {
		t.Fatalf("unexpected restaurant: %+v", rest)
	}

	// Creating for an unknown owner fails before touching the store.
	if _, err := svc.Create(context.Background(), ports.CreateRestaurantInput{
		UserID: "ghost", Name: "x", Location: "y", Menu: "z",
	}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRestaurantService_ListAll_EmptyIsNotFound(t *testing.T) {
	svc := NewRestaurantService(newStubRestaurantRepo(), newStubUserRepo())

	if _, err := svc.ListAll(context.Background()); !errors.Is(err, domain.ErrRestaurantNotFound) {
		t.Fatalf("expected ErrRestaurantNotFound on empty store, got %v", err)
	}
}

func TestRestaurantService_UpdateMenu(t *testing.T) {
	users := newStubUserRepo()
	users.addUser(t, verifiedUser("user-1", "a@example.com"), "pw")
	repo := newStubRestaurantRepo()
	svc := NewRestaurantService(repo, users)

	if _, err := svc.Create(context.Background(), ports.CreateRestaurantInput{
		UserID: "user-1", Name: "Warung Satu", Location: "Jakarta", Menu: "old",
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	rest, err := svc.UpdateMenu(context.Background(), "user-1", "new menu")
	if err != nil {
		t.Fatalf("UpdateMenu returned error: %v", err)
	}
	if rest.Menu != "new menu" {
		t.Fatalf("menu not updated: %s", rest.Menu)
	}
}
