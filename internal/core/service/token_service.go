package service

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

const (
	// AccessTokenTTL is the fixed lifetime of an access token.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is the fixed lifetime of a refresh token.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var errSameSecret = errors.New("access and refresh secrets must differ")

// TokenCodec signs and verifies the two token kinds with independent
// HMAC-SHA256 secrets.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	bcryptCost    int
	now           func() time.Time
}

// NewTokenCodec builds a codec from the two signing secrets. Identical
// secrets are rejected: compromise of one kind must not forge the other.
// bcryptCost <= 0 falls back to bcrypt.DefaultCost.
func NewTokenCodec(accessSecret, refreshSecret string, bcryptCost int) (*TokenCodec, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errSameSecret
	}
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		bcryptCost:    bcryptCost,
		now:           time.Now,
	}, nil
}

// IssueAccess signs a 15-minute access token carrying the given claims.
func (tc *TokenCodec) IssueAccess(claims domain.TokenClaims) (string, error) {
	return tc.issue(claims, tc.accessSecret, AccessTokenTTL)
}

// IssueRefresh signs a 7-day refresh token carrying the given claims.
func (tc *TokenCodec) IssueRefresh(claims domain.TokenClaims) (string, error) {
	return tc.issue(claims, tc.refreshSecret, RefreshTokenTTL)
}

func (tc *TokenCodec) issue(claims domain.TokenClaims, secret []byte, ttl time.Duration) (string, error) {
	now := tc.now().UTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess checks a token under the access secret.
func (tc *TokenCodec) VerifyAccess(token string) domain.VerifyResult {
	return tc.verify(token, tc.accessSecret)
}

// VerifyRefresh checks a token under the refresh secret.
func (tc *TokenCodec) VerifyRefresh(token string) domain.VerifyResult {
	return tc.verify(token, tc.refreshSecret)
}

// verify returns a tagged result instead of an error so that callers branch
// on the outcome rather than inspecting error causes.
func (tc *TokenCodec) verify(token string, secret []byte) domain.VerifyResult {
	claims := &domain.TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return tc.now() }))

	switch {
	case err == nil && parsed.Valid:
		return domain.VerifyResult{Status: domain.TokenValid, Claims: claims}
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.VerifyResult{Status: domain.TokenExpired}
	default:
		return domain.VerifyResult{Status: domain.TokenInvalid}
	}
}

// DecodeUnverified extracts claims without signature validation. Only for
// tokens the caller has already accepted as valid this request cycle.
func (tc *TokenCodec) DecodeUnverified(token string) (*domain.TokenClaims, error) {
	claims := &domain.TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// HashRefreshToken derives the bcrypt hash stored in the revocation ledger.
// The token is pre-hashed with SHA-256 so its length never exceeds bcrypt's
// input limit; the comparison cost stays bcrypt-slow and tunable.
func (tc *TokenCodec) HashRefreshToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(prehash(token), tc.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash refresh token: %w", err)
	}
	return string(hash), nil
}

// CompareRefreshToken checks a presented token against a stored hash.
func (tc *TokenCodec) CompareRefreshToken(hash, token string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(token))
}

func prehash(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(base64.RawURLEncoding.EncodeToString(sum[:]))
}
