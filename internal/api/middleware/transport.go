package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/service"
)

// Echo context keys shared by the transport and auth middlewares and the
// handlers behind them.
const (
	CtxClientType     = "clientType"
	CtxAccessToken    = "accessToken"
	CtxRefreshToken   = "refreshToken"
	CtxClaims         = "authClaims"
	CtxNewAccessToken = "newAccessToken"
)

// Cookie names used by the web transport.
const (
	AccessCookieName  = "accessToken"
	RefreshCookieName = "refreshToken"
)

// Transport resolves which channel carries the tokens for this request and
// normalizes them into the echo context.
//
// web clients carry both tokens in cookies; mobile clients carry the access
// token as a Bearer header and the refresh token in x-refresh-token. A
// missing or unrecognized x-client-type header rejects immediately, as does
// an absent refresh token: it is the mandatory fallback credential even when
// a fresh access token is presented.
func Transport() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientType := c.Request().Header.Get("x-client-type")

			var accessToken, refreshToken string
			switch clientType {
			case domain.ClientWeb:
				if ck, err := c.Cookie(AccessCookieName); err == nil {
					accessToken = ck.Value
				}
				if ck, err := c.Cookie(RefreshCookieName); err == nil {
					refreshToken = ck.Value
				}
			case domain.ClientMobile:
				authHeader := c.Request().Header.Get("Authorization")
				if authHeader != "" {
					parts := strings.SplitN(authHeader, " ", 2)
					if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
						accessToken = parts[1]
					}
				}
				// First value wins if the header is supplied more than once.
				refreshToken = c.Request().Header.Get("x-refresh-token")
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown client type")
			}

			if refreshToken == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
			}

			c.Set(CtxClientType, clientType)
			c.Set(CtxAccessToken, accessToken)
			c.Set(CtxRefreshToken, refreshToken)

			return next(c)
		}
	}
}

// SetAccessCookie attaches a fresh access token cookie to the response. The
// cookie is deliberately not httpOnly so the front end can read its own
// session state; the refresh cookie is the guarded one.
func SetAccessCookie(c echo.Context, token string, production bool) {
	c.SetCookie(buildCookie(AccessCookieName, token, service.AccessTokenTTL, false, production))
}

// SetRefreshCookie attaches the refresh token cookie, httpOnly so page
// scripts can never read it.
func SetRefreshCookie(c echo.Context, token string, production bool) {
	c.SetCookie(buildCookie(RefreshCookieName, token, service.RefreshTokenTTL, true, production))
}

// ClearAuthCookies expires both token cookies on the response.
func ClearAuthCookies(c echo.Context, production bool) {
	c.SetCookie(deletionCookie(AccessCookieName, false, production))
	c.SetCookie(deletionCookie(RefreshCookieName, true, production))
}

func buildCookie(name, value string, ttl time.Duration, httpOnly, production bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl).UTC(),
		HttpOnly: httpOnly,
		Secure:   production,
		SameSite: sameSiteMode(production),
	}
}

func deletionCookie(name string, httpOnly, production bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		HttpOnly: httpOnly,
		Secure:   production,
		SameSite: sameSiteMode(production),
	}
}

// Production runs cross-site (separate front-end origin), so cookies need
// SameSite=None with Secure; development stays on Lax over plain HTTP.
func sameSiteMode(production bool) http.SameSite {
	if production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
