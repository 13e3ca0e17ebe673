package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

var _ ports.SessionRepository = (*SessionRepository)(nil)

// SessionRepository is the revocation ledger over refresh_sessions. The
// user_id unique constraint plus the conflict clause give the at-most-one-
// session-per-user invariant without read-modify-write: concurrent logins
// for one user serialize at the row and the last committed write wins.
type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Upsert(ctx context.Context, session domain.RefreshSession) error {
	_, err := r.db.ExecContext(ctx,
		`insert into refresh_sessions (user_id, token_hash, expires_at)
		 values ($1, $2, $3)
		 on conflict (user_id) do update
		 set token_hash = excluded.token_hash, expires_at = excluded.expires_at`,
		session.UserID, session.TokenHash, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert refresh session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Find(ctx context.Context, userID string) (*domain.RefreshSession, error) {
	var s domain.RefreshSession
	if err := r.db.QueryRowContext(ctx,
		`select user_id, token_hash, expires_at from refresh_sessions where user_id = $1`, userID,
	).Scan(&s.UserID, &s.TokenHash, &s.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Delete removes the user's session. Deleting an absent row is a no-op so
// revocation stays idempotent.
func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`delete from refresh_sessions where user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete refresh session: %w", err)
	}
	return nil
}
