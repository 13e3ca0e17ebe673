package ports

import (
	"context"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// ProvisionUserInput carries the fields for creating a partner user. The
// initial password is generated server-side and delivered by email together
// with the verification link.
type ProvisionUserInput struct {
	FullName    string
	Email       string
	Phone       string
	PartnerName string
	CreatorID   string
}

// ProvisionedUser is returned after a successful provisioning transaction.
type ProvisionedUser struct {
	User        *domain.User
	PartnerName string
}

// UpdateProfileInput carries a profile mutation. Status, when set by a
// non-partner actor, additionally marks the account verified.
type UpdateProfileInput struct {
	Email    string
	FullName string
	Phone    string
	Status   *int
	// Actor identifies who performs the update, from the access token.
	ActorID          string
	ActorPartnerName string
}

// UserService defines the identity-management use cases.
type UserService interface {
	Provision(ctx context.Context, input ProvisionUserInput) (*ProvisionedUser, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error)
	SoftDelete(ctx context.Context, email, actorID string) error
}
