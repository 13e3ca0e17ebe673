package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mitraportal/partner-system/internal/core/ports"
)

// UserHandler exposes the identity-management endpoints. Every route is
// permission-gated by route middleware; handlers only read claims for the
// actor identity.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type createUserRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	PartnerName string `json:"partner_name" validate:"required"`
}

// Create provisions a partner user. The generated password travels by
// verification email, never in the response.
func (h *UserHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.userService.Provision(c.Request().Context(), ports.ProvisionUserInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		PartnerName: req.PartnerName,
		CreatorID:   claims.UserID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, attachRenewedToken(c, map[string]any{
		"message": "User created successfully. Check the email verification to verify the account.",
		"created_user": map[string]any{
			"user_id":      created.User.ID,
			"full_name":    created.User.FullName,
			"email":        created.User.Email,
			"partner_name": created.PartnerName,
		},
	}))
}

// Get returns the caller's own identity.
func (h *UserHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Get(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, attachRenewedToken(c, map[string]any{
		"user": user,
	}))
}

// List returns all identities.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, attachRenewedToken(c, map[string]any{
		"message": "Successfully retrieved all users.",
		"users":   users,
	}))
}

type updateUserRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Status   *int   `json:"status,omitempty"`
}

// Update mutates a profile by email. A non-partner actor sending status=1
// additionally marks the account verified.
func (h *UserHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.userService.UpdateProfile(c.Request().Context(), ports.UpdateProfileInput{
		Email:            req.Email,
		FullName:         req.FullName,
		Phone:            req.Phone,
		Status:           req.Status,
		ActorID:          claims.UserID,
		ActorPartnerName: claims.PartnerName,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, attachRenewedToken(c, map[string]any{
		"message": "Successfully updated user.",
		"user":    updated,
	}))
}

type softDeleteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SoftDelete deactivates an identity by email; the row is retained.
func (h *UserHandler) SoftDelete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req softDeleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.SoftDelete(c.Request().Context(), req.Email, claims.UserID); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, attachRenewedToken(c, map[string]any{
		"message": "Successfully deleted user.",
	}))
}
