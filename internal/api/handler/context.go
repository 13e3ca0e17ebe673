package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mitraportal/partner-system/internal/api/middleware"
	"github.com/mitraportal/partner-system/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. Presence
// proves the middleware ran; a handler reached without them rejects.
func ctxClaims(c echo.Context) (*domain.TokenClaims, error) {
	claims, _ := c.Get(middleware.CtxClaims).(*domain.TokenClaims)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// renewedAccessToken returns the access token minted by the renewal path
// this request, or "" when the presented token was still valid. Mobile
// responses surface it; web delivery already happened via Set-Cookie.
func renewedAccessToken(c echo.Context) string {
	token, _ := c.Get(middleware.CtxNewAccessToken).(string)
	return token
}

// attachRenewedToken adds the renewed access token to a response body when
// one was minted this request. Web clients never see the field; their copy
// went out as a cookie.
func attachRenewedToken(c echo.Context, resp map[string]any) map[string]any {
	if token := renewedAccessToken(c); token != "" {
		resp["newAccessToken"] = token
	}
	return resp
}
