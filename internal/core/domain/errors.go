package domain

import "errors"

var (
	// ErrUnauthenticated covers every no/invalid/expired-credential outcome.
	// The boundary maps it to 401 without distinguishing the cause.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrBadCredentials is the login failure: email or password wrong (401).
	ErrBadCredentials = errors.New("email or password is wrong")
	// ErrWrongPassword is the password-change failure: old password wrong (409).
	ErrWrongPassword = errors.New("wrong old password")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotVerified    = errors.New("account not verified")
	ErrPartnerNotFound    = errors.New("partner not found")
	ErrSessionNotFound    = errors.New("refresh session not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrValidation         = errors.New("validation failed")
)
