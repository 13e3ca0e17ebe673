package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

// UserService implements identity provisioning and profile management.
type UserService struct {
	users      ports.UserRepository
	mailer     ports.Mailer
	audit      ports.AuditSink
	baseURL    string
	bcryptCost int
}

// NewUserService wires the service. baseURL is the externally reachable
// prefix used to build verification links.
func NewUserService(users ports.UserRepository, mailer ports.Mailer, audit ports.AuditSink, baseURL string, bcryptCost int) *UserService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:      users,
		mailer:     mailer,
		audit:      audit,
		baseURL:    baseURL,
		bcryptCost: bcryptCost,
	}
}

// Provision creates a partner user with a generated initial password and an
// unverified account. The identity row, credential row and partner link are
// written in one transaction; the verification email goes out only after
// commit.
func (s *UserService) Provision(ctx context.Context, input ports.ProvisionUserInput) (*ports.ProvisionedUser, error) {
	initialPassword := uuid.NewString()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(initialPassword), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:                uuid.NewString(),
		Role:              domain.RolePartner,
		FullName:          input.FullName,
		Email:             input.Email,
		Phone:             input.Phone,
		PartnerName:       input.PartnerName,
		IsActive:          true,
		VerificationToken: uuid.NewString(),
		CreatedBy:         input.CreatorID,
	}

	created, err := s.users.Provision(ctx, ports.ProvisionUserRecord{
		User:         user,
		PasswordHash: string(passwordHash),
		PartnerName:  input.PartnerName,
	})
	if err != nil {
		return nil, err
	}

	verificationURL := fmt.Sprintf("%s/api/auth/verify-email?token=%s", s.baseURL, user.VerificationToken)
	body := fmt.Sprintf(
		"<h1>Please verify your email by clicking on the following link:<br></h1><a href=%q><h2>Verify Email</h2></a><h3>Password: <b>%s</b></h3>",
		verificationURL, initialPassword,
	)
	if err := s.mailer.Send(created.Email, "Email Verification", body); err != nil {
		return nil, fmt.Errorf("send verification email: %w", err)
	}

	s.audit.Record(domain.AuditEntry{
		RecordID: created.ID,
		ActorID:  input.CreatorID,
		Table:    "users",
		Change:   map[string]any{"email": created.Email, "full_name": created.FullName, "phone": created.Phone},
		Action:   domain.AuditInsert,
	})

	return &ports.ProvisionedUser{User: created, PartnerName: input.PartnerName}, nil
}

// Get returns a single identity by id.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// List returns all identities. An empty store is reported as not found.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return users, nil
}

// UpdateProfile mutates name and phone. An actor without a partner
// affiliation setting status=1 additionally marks the account verified.
func (s *UserService) UpdateProfile(ctx context.Context, input ports.UpdateProfileInput) (*domain.User, error) {
	setVerified := input.ActorPartnerName == "" && input.Status != nil && *input.Status == 1

	updated, err := s.users.UpdateProfile(ctx, input.Email, input.FullName, input.Phone, input.ActorID, setVerified)
	if err != nil {
		return nil, err
	}

	change := map[string]any{"full_name": input.FullName, "phone": input.Phone}
	if setVerified {
		change["status"] = *input.Status
	}
	s.audit.Record(domain.AuditEntry{
		RecordID: updated.ID,
		ActorID:  input.ActorID,
		Table:    "users",
		Change:   change,
		Action:   domain.AuditUpdate,
	})

	return updated, nil
}

// SoftDelete deactivates the identity; the row is retained and excluded
// from authentication.
func (s *UserService) SoftDelete(ctx context.Context, email, actorID string) error {
	deleted, err := s.users.SoftDelete(ctx, email, actorID)
	if err != nil {
		return err
	}

	s.audit.Record(domain.AuditEntry{
		RecordID: deleted.ID,
		ActorID:  actorID,
		Table:    "users",
		Change:   map[string]any{},
		Action:   domain.AuditDelete,
	})
	return nil
}
