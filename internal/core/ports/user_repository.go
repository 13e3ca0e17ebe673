package ports

import (
	"context"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// ProvisionUserRecord carries everything the store needs to create one user.
// The whole insert sequence (identity row, credential row, partner link) runs
// under a single transaction; any failure rolls the sequence back.
type ProvisionUserRecord struct {
	User         *domain.User
	PasswordHash string
	PartnerName  string
}

// UserRepository owns the users and user_passwords tables. No other
// component writes identity or credential rows.
type UserRepository interface {
	Provision(ctx context.Context, rec ProvisionUserRecord) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// UpdateProfile mutates name/phone (and verified flag when setVerified).
	UpdateProfile(ctx context.Context, email, fullName, phone, actorID string, setVerified bool) (*domain.User, error)
	// SoftDelete flips is_active off; the row is retained.
	SoftDelete(ctx context.Context, email, actorID string) (*domain.User, error)
	// VerifyEmail flips is_verified for the user holding the token.
	VerifyEmail(ctx context.Context, token string) error

	// PasswordHash returns the current credential hash for the user.
	PasswordHash(ctx context.Context, userID string) (string, error)
	// ReplacePasswordHash overwrites the credential wholesale.
	ReplacePasswordHash(ctx context.Context, userID, hash string) error

	// PermissionsForRole resolves the permission set granted to a role.
	PermissionsForRole(ctx context.Context, role string) ([]string, error)
}
