package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository owns the users, user_passwords and partner_users tables.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userSelect = `select u.id, u.role, u.full_name, u.email, coalesce(u.phone, ''),
	coalesce(p.name, ''), u.is_active, u.is_verified, coalesce(u.verification_token, ''),
	coalesce(u.created_by, ''), coalesce(u.updated_by, ''), u.created_at, u.updated_at, u.deleted_at
from users u
left join partner_users pu on pu.user_id = u.id
left join partners p on p.id = pu.partner_id`

// Provision inserts the identity row, credential row and partner link under
// one transaction. Any step failure rolls the whole sequence back.
func (r *UserRepository) Provision(ctx context.Context, rec ports.ProvisionUserRecord) (*domain.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin provision tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var partnerID string
	if err := tx.QueryRowContext(ctx,
		`select id from partners where name = $1`, rec.PartnerName,
	).Scan(&partnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPartnerNotFound
		}
		return nil, err
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`select exists(select 1 from users where email = $1)`, rec.User.Email,
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	u := rec.User
	if _, err := tx.ExecContext(ctx,
		`insert into users (id, role, full_name, email, phone, verification_token, is_active, is_verified, created_by)
		 values ($1, $2, $3, $4, $5, $6, $7, false, $8)`,
		u.ID, u.Role, u.FullName, u.Email, u.Phone, u.VerificationToken, u.IsActive, u.CreatedBy,
	); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`insert into user_passwords (user_id, password_hash, created_by) values ($1, $2, $3)`,
		u.ID, rec.PasswordHash, u.CreatedBy,
	); err != nil {
		return nil, fmt.Errorf("insert credential: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`insert into partner_users (id, partner_id, user_id, created_by) values ($1, $2, $3, $4)`,
		uuid.NewString(), partnerID, u.ID, u.CreatedBy,
	); err != nil {
		return nil, fmt.Errorf("insert partner link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit provision tx: %w", err)
	}
	return r.FindByID(ctx, u.ID)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, userSelect+` where u.id = $1`, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, userSelect+` where u.email = $1`, email))
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, userSelect+` order by u.created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, email, fullName, phone, actorID string, setVerified bool) (*domain.User, error) {
	var (
		res sql.Result
		err error
	)
	if setVerified {
		res, err = r.db.ExecContext(ctx,
			`update users set full_name = $1, phone = $2, is_verified = true, updated_by = $3, updated_at = now() where email = $4`,
			fullName, phone, actorID, email)
	} else {
		res, err = r.db.ExecContext(ctx,
			`update users set full_name = $1, phone = $2, updated_by = $3, updated_at = now() where email = $4`,
			fullName, phone, actorID, email)
	}
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByEmail(ctx, email)
}

func (r *UserRepository) SoftDelete(ctx context.Context, email, actorID string) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		`update users set is_active = false, deleted_at = now(), updated_by = $1, updated_at = now() where email = $2`,
		actorID, email)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByEmail(ctx, email)
}

func (r *UserRepository) VerifyEmail(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx,
		`update users set is_verified = true, updated_at = now() where verification_token = $1`, token)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}

func (r *UserRepository) PasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	if err := r.db.QueryRowContext(ctx,
		`select password_hash from user_passwords where user_id = $1`, userID,
	).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	return hash, nil
}

func (r *UserRepository) ReplacePasswordHash(ctx context.Context, userID, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`update user_passwords set password_hash = $1, updated_at = now() where user_id = $2`,
		hash, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) PermissionsForRole(ctx context.Context, role string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`select p.name from permissions p
		 join role_permissions rp on rp.permission_id = p.id
		 join roles r on r.id = rp.role_id
		 where r.name = $1
		 order by p.name asc`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		permissions = append(permissions, name)
	}
	return permissions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	u, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUserRow(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		deletedAt sql.NullTime
	)
	if err := row.Scan(
		&u.ID, &u.Role, &u.FullName, &u.Email, &u.Phone,
		&u.PartnerName, &u.IsActive, &u.IsVerified, &u.VerificationToken,
		&u.CreatedBy, &u.UpdatedBy, &u.CreatedAt, &u.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		u.DeletedAt = &t
	}
	return &u, nil
}
