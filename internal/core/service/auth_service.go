package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

// AuthService implements the dual-token session protocol: login, silent
// renewal, logout, password change and email verification.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionRepository
	codec      ports.TokenCodec
	perms      ports.PermissionCache
	bcryptCost int
	now        func() time.Time
}

// NewAuthService wires the service. perms may be nil to skip caching;
// bcryptCost <= 0 falls back to bcrypt.DefaultCost.
func NewAuthService(users ports.UserRepository, sessions ports.SessionRepository, codec ports.TokenCodec, perms ports.PermissionCache, bcryptCost int) *AuthService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		codec:      codec,
		perms:      perms,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Login establishes the first session for a user. The refresh session is
// upserted: a prior session on another device is overwritten and its
// refresh token stops verifying immediately.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsVerified {
		return nil, domain.ErrUserNotVerified
	}

	hash, err := s.users.PasswordHash(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, domain.ErrBadCredentials
	}

	permissions, err := s.loadPermissions(ctx, user.Role)
	if err != nil {
		return nil, err
	}

	claims := domain.TokenClaims{
		UserID:      user.ID,
		Permissions: permissions,
		PartnerName: user.PartnerName,
	}
	accessToken, err := s.codec.IssueAccess(claims)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.IssueRefresh(claims)
	if err != nil {
		return nil, err
	}

	tokenHash, err := s.codec.HashRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	session := domain.RefreshSession{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: s.now().UTC().Add(RefreshTokenTTL),
	}
	if err := s.sessions.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("persist refresh session: %w", err)
	}

	return &ports.LoginResult{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Renew is the fallback path of the state machine: every unusable access
// token (absent, expired, bad signature) lands here uniformly. A new access
// token is minted carrying the refresh token's original claims; the refresh
// token itself is not rotated.
func (s *AuthService) Renew(ctx context.Context, refreshToken string) (*ports.RenewResult, error) {
	res := s.codec.VerifyRefresh(refreshToken)
	if res.Status != domain.TokenValid {
		return nil, domain.ErrUnauthenticated
	}
	claims := res.Claims

	session, err := s.sessions.Find(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			// Rotated by a later login, revoked by logout, or never issued.
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, domain.ErrUnauthenticated
	}
	if s.codec.CompareRefreshToken(session.TokenHash, refreshToken) != nil {
		return nil, domain.ErrUnauthenticated
	}

	accessToken, err := s.codec.IssueAccess(domain.TokenClaims{
		UserID:      claims.UserID,
		Permissions: claims.Permissions,
		PartnerName: claims.PartnerName,
	})
	if err != nil {
		return nil, err
	}

	return &ports.RenewResult{AccessToken: accessToken, Claims: claims}, nil
}

// Logout deletes the user's refresh session unconditionally. Repeating it
// is a no-op, not an error.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}

// ChangePassword replaces the credential wholesale after comparing the old
// password. A wrong old password never mutates the stored hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return err
	}

	hash, err := s.users.PasswordHash(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(oldPassword)) != nil {
		return domain.ErrWrongPassword
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.ReplacePasswordHash(ctx, userID, string(newHash))
}

// VerifyEmail flips the verified flag for the account holding the token.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	return s.users.VerifyEmail(ctx, token)
}

func (s *AuthService) loadPermissions(ctx context.Context, role string) ([]string, error) {
	if s.perms != nil {
		if cached, err := s.perms.Get(ctx, role); err == nil && cached != nil {
			return cached, nil
		}
	}
	permissions, err := s.users.PermissionsForRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if s.perms != nil {
		_ = s.perms.Set(ctx, role, permissions)
	}
	return permissions, nil
}
