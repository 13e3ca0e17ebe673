package domain

import "time"

// RefreshSession is the one-active-session-per-user revocation record.
// At most one row exists per user: a new login upserts over any prior
// session, a logout deletes it. The stored hash is the only server-side
// handle on an issued refresh token.
type RefreshSession struct {
	UserID    string
	TokenHash string
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry at the given instant.
func (s RefreshSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
