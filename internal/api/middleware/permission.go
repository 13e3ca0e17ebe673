package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// RequirePermission gates a route on one permission string from the
// authenticated claims. Must run after Auth.
func RequirePermission(perm string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := c.Get(CtxClaims).(*domain.TokenClaims)
			if claims == nil || !domain.HasPermission(claims.Permissions, perm) {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			return next(c)
		}
	}
}
