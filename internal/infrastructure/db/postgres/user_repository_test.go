package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

var userColumns = []string{
	"id", "role", "full_name", "email", "phone",
	"partner_name", "is_active", "is_verified", "verification_token",
	"created_by", "updated_by", "created_at", "updated_at", "deleted_at",
}

func userRow(id, email string) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, domain.RolePartner, "Test User", email, "555-0100",
		"acme", true, false, "tok-1",
		"admin-1", "", now, now, nil,
	}
}

func provisionRecord(email string) ports.ProvisionUserRecord {
	return ports.ProvisionUserRecord{
		User: &domain.User{
			ID:                "user-1",
			Role:              domain.RolePartner,
			FullName:          "Test User",
			Email:             email,
			Phone:             "555-0100",
			IsActive:          true,
			VerificationToken: "tok-1",
			CreatedBy:         "admin-1",
		},
		PasswordHash: "bcrypt-hash",
		PartnerName:  "acme",
	}
}

func TestUserRepository_Provision(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("select id from partners").
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("partner-1"))
	mock.ExpectQuery("select exists").
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("insert into users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into user_passwords").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into partner_users").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("select u.id, u.role").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(userRow("user-1", "new@example.com")...))

	repo := NewUserRepository(db)
	user, err := repo.Provision(context.Background(), provisionRecord("new@example.com"))
	if err != nil {
		t.Fatalf("Provision returned error: %v", err)
	}
	if user.ID != "user-1" || user.PartnerName != "acme" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_Provision_UnknownPartnerRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("select id from partners").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	repo := NewUserRepository(db)
	rec := provisionRecord("new@example.com")
	rec.PartnerName = "ghost"
	if _, err := repo.Provision(context.Background(), rec); !errors.Is(err, domain.ErrPartnerNotFound) {
		t.Fatalf("expected ErrPartnerNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_Provision_DuplicateEmailRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("select id from partners").
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("partner-1"))
	mock.ExpectQuery("select exists").
		WithArgs("dup@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	repo := NewUserRepository(db)
	if _, err := repo.Provision(context.Background(), provisionRecord("dup@example.com")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select u.id, u.role").
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	repo := NewUserRepository(db)
	if _, err := repo.FindByEmail(context.Background(), "missing@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_VerifyEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update users set is_verified = true").
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("update users set is_verified = true").
		WithArgs("tok-bogus").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewUserRepository(db)
	if err := repo.VerifyEmail(context.Background(), "tok-1"); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}
	if err := repo.VerifyEmail(context.Background(), "tok-bogus"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for unknown token, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_PermissionsForRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select p.name from permissions").
		WithArgs(domain.RolePartner).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).
			AddRow(domain.PermGetUser).
			AddRow(domain.PermUpdateUser))

	repo := NewUserRepository(db)
	permissions, err := repo.PermissionsForRole(context.Background(), domain.RolePartner)
	if err != nil {
		t.Fatalf("PermissionsForRole returned error: %v", err)
	}
	if len(permissions) != 2 || permissions[0] != domain.PermGetUser {
		t.Fatalf("unexpected permissions: %v", permissions)
	}
}
