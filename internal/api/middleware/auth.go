package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mitraportal/partner-system/internal/api/metrics"
	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

// Auth runs the per-request authentication state machine on the tokens the
// Transport middleware resolved.
//
// A valid unexpired access token authenticates directly. Every other
// outcome (absent, expired, bad signature) takes the single fallback path:
// refresh-token renewal through the revocation ledger. On success the
// renewed access token travels back over the same channel the request
// arrived on: a fresh cookie for web, a context value the handler surfaces
// in the response body for mobile.
func Auth(codec ports.TokenCodec, auth ports.AuthService, production bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			accessToken, _ := c.Get(CtxAccessToken).(string)
			refreshToken, _ := c.Get(CtxRefreshToken).(string)
			clientType, _ := c.Get(CtxClientType).(string)

			if accessToken != "" {
				res := codec.VerifyAccess(accessToken)
				if res.Status == domain.TokenValid {
					c.Set(CtxClaims, res.Claims)
					metrics.AuthRequestsTotal.WithLabelValues("authenticated").Inc()
					return next(c)
				}
			}

			renewed, err := auth.Renew(c.Request().Context(), refreshToken)
			if err != nil {
				metrics.RenewalsTotal.WithLabelValues("rejected").Inc()
				if err == domain.ErrUnauthenticated {
					return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
				}
				return err
			}
			metrics.RenewalsTotal.WithLabelValues("renewed").Inc()

			if clientType == domain.ClientWeb {
				SetAccessCookie(c, renewed.AccessToken, production)
			} else {
				c.Set(CtxNewAccessToken, renewed.AccessToken)
			}

			c.Set(CtxClaims, renewed.Claims)
			metrics.AuthRequestsTotal.WithLabelValues("renewed").Inc()
			return next(c)
		}
	}
}
