package ports

import (
	"context"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// LoginResult carries both freshly issued tokens. Delivery (cookies vs
// response body) is the transport layer's concern.
type LoginResult struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

// RenewResult is returned by a successful refresh-token renewal. Only the
// access token is reissued; the refresh token is not rotated.
type RenewResult struct {
	AccessToken string
	Claims      *domain.TokenClaims
}

// AuthService implements the dual-token session protocol.
type AuthService interface {
	// Login establishes the first session: verifies the identity is active
	// and verified, compares the password, loads the role's permissions,
	// issues both tokens and upserts the refresh session.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Renew validates a refresh token against the revocation ledger and
	// mints a replacement access token carrying the refresh token's claims.
	Renew(ctx context.Context, refreshToken string) (*RenewResult, error)

	// Logout deletes the caller's refresh session. Idempotent: a second
	// logout is a no-op.
	Logout(ctx context.Context, userID string) error

	// ChangePassword replaces the credential after comparing oldPassword.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error

	// VerifyEmail flips the verified flag for the token's holder.
	VerifyEmail(ctx context.Context, token string) error
}
