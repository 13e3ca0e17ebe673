package domain

import "time"

const (
	RoleAdmin   = "admin"
	RolePartner = "mitra"
)

// Permission strings gating identity-mutating and resource operations.
const (
	PermCreateUser  = "create_user"
	PermGetUser     = "get_user"
	PermViewAllUser = "view_all_user"
	PermUpdateUser  = "update_user"
	PermDeleteUser  = "delete_user"
)

// User models an authenticated actor in the system. IsActive=false is a
// soft delete: the row stays, the identity is excluded from authentication.
type User struct {
	ID                string     `json:"id"`
	Role              string     `json:"role"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone,omitempty"`
	PartnerName       string     `json:"partner_name,omitempty"`
	IsActive          bool       `json:"is_active"`
	IsVerified        bool       `json:"is_verified"`
	VerificationToken string     `json:"-"`
	CreatedBy         string     `json:"created_by,omitempty"`
	UpdatedBy         string     `json:"updated_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

// HasPermission reports whether perm is in the given permission set.
func HasPermission(permissions []string, perm string) bool {
	for _, p := range permissions {
		if p == perm {
			return true
		}
	}
	return false
}
