package domain

import "github.com/golang-jwt/jwt/v5"

// Client transport kinds declared by the x-client-type header. Web clients
// carry tokens in cookies; mobile clients carry them in headers.
const (
	ClientWeb    = "web"
	ClientMobile = "mobile"
)

// TokenClaims is the single payload shape carried by both token kinds.
// Permissions and PartnerName are included only when known; UserID is
// always present and is the only field renewal trusts before the stored
// session hash has been compared.
type TokenClaims struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions,omitempty"`
	PartnerName string   `json:"partner_name,omitempty"`
	jwt.RegisteredClaims
}

// VerifyStatus tags the outcome of a token verification.
type VerifyStatus int

const (
	TokenValid VerifyStatus = iota
	TokenExpired
	TokenInvalid
)

// VerifyResult is the sum type returned by token verification. Claims is
// populated only when Status is TokenValid; callers branch on the tag,
// never on an error value.
type VerifyResult struct {
	Status VerifyStatus
	Claims *TokenClaims
}

func (s VerifyStatus) String() string {
	switch s {
	case TokenValid:
		return "valid"
	case TokenExpired:
		return "expired"
	default:
		return "invalid"
	}
}
