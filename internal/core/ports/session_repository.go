package ports

import (
	"context"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// SessionRepository is the revocation ledger over refresh_sessions.
// Upsert must be atomic at the storage layer (conflict-clause semantics):
// two racing logins for one user leave exactly one row, the later write.
type SessionRepository interface {
	Upsert(ctx context.Context, session domain.RefreshSession) error
	Find(ctx context.Context, userID string) (*domain.RefreshSession, error)
	// Delete is idempotent: deleting an absent session is not an error.
	Delete(ctx context.Context, userID string) error
}
