package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mitraportal/partner-system/internal/api/metrics"
	mw "github.com/mitraportal/partner-system/internal/api/middleware"
	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

// AuthHandler exposes the session-protocol endpoints.
type AuthHandler struct {
	authService ports.AuthService
	production  bool
}

func NewAuthHandler(authService ports.AuthService, production bool) *AuthHandler {
	return &AuthHandler{authService: authService, production: production}
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signinResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Signin establishes the first session. Web clients get both tokens as
// cookies; every other client gets them in the response body.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	metrics.LoginDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	if c.Request().Header.Get("x-client-type") == domain.ClientWeb {
		mw.SetAccessCookie(c, result.AccessToken, h.production)
		mw.SetRefreshCookie(c, result.RefreshToken, h.production)
		return c.JSON(http.StatusCreated, signinResponse{Message: "Successfully authenticated."})
	}

	return c.JSON(http.StatusCreated, signinResponse{
		Message:      "Successfully authenticated.",
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

// Reauth confirms or silently renews the session. The Auth middleware has
// already run the state machine; web renewals were delivered as a cookie,
// mobile renewals surface here as a body field.
func (h *AuthHandler) Reauth(c echo.Context) error {
	return c.JSON(http.StatusCreated, attachRenewedToken(c, map[string]any{
		"message": "User successfully authenticated.",
	}))
}

// Logout revokes the caller's refresh session. Idempotent: logging out
// twice returns the same 200.
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), claims.UserID); err != nil {
		return err
	}
	metrics.SessionsRevokedTotal.Inc()

	if ct, _ := c.Get(mw.CtxClientType).(string); ct == domain.ClientWeb {
		mw.ClearAuthCookies(c, h.production)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Successfully logged out."})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// ChangePassword replaces the caller's credential. Requires the
// update_user permission, enforced by route middleware.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing password")
	}

	if err := h.authService.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, attachRenewedToken(c, map[string]any{
		"message": "Successfully changed password.",
	}))
}

// VerifyEmail flips the verified flag for the account holding the token.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing token")
	}

	if err := h.authService.VerifyEmail(c.Request().Context(), token); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Email successfully verified."})
}

func loginResult(err error) string {
	switch err {
	case domain.ErrBadCredentials:
		return "bad_credentials"
	case domain.ErrUserNotVerified:
		return "unverified"
	case domain.ErrUserNotFound:
		return "not_found"
	default:
		return "error"
	}
}
