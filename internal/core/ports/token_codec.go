package ports

import "github.com/mitraportal/partner-system/internal/core/domain"

// TokenCodec signs, verifies and decodes the two token kinds. Access and
// refresh tokens are signed with independent secrets; compromise of one
// must not grant forgeable tokens of the other kind.
type TokenCodec interface {
	IssueAccess(claims domain.TokenClaims) (string, error)
	IssueRefresh(claims domain.TokenClaims) (string, error)
	VerifyAccess(token string) domain.VerifyResult
	VerifyRefresh(token string) domain.VerifyResult
	// DecodeUnverified extracts claims without checking the signature. Only
	// for tokens already accepted as valid in the current request cycle.
	DecodeUnverified(token string) (*domain.TokenClaims, error)

	// HashRefreshToken derives the slow irreversible hash persisted in the
	// revocation ledger; CompareRefreshToken checks a presented token
	// against it. Plaintext refresh tokens are never stored or compared.
	HashRefreshToken(token string) (string, error)
	CompareRefreshToken(hash, token string) error
}
