package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Store and crypto
	// failures fall through to the generic 500 below.
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrBadCredentials):
		return http.StatusUnauthorized, "email or password is wrong"
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusConflict, "wrong old password"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusConflict, "account doesn't exist"
	case errors.Is(err, domain.ErrUserNotVerified):
		return http.StatusConflict, "account not verified"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrPartnerNotFound):
		return http.StatusConflict, "partner doesn't exist"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrRestaurantNotFound):
		return http.StatusNotFound, "restaurant not found"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusBadRequest, "invalid token"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
