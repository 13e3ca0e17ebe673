package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mitraportal/partner-system/internal/core/domain"
)

func runTransport(t *testing.T, req *http.Request) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := Transport()(func(c echo.Context) error {
		called = true
		return nil
	})(c)
	return c, called, err
}

func TestTransport_UnknownClientType(t *testing.T) {
	for _, clientType := range []string{"", "desktop"} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
		if clientType != "" {
			req.Header.Set("x-client-type", clientType)
		}

		_, called, err := runTransport(t, req)
		if called {
			t.Fatalf("client type %q: next handler must not run", clientType)
		}
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("client type %q: expected 401, got %v", clientType, err)
		}
	}
}

func TestTransport_WebReadsCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	req.Header.Set("x-client-type", domain.ClientWeb)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "acc-token"})
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: "ref-token"})

	c, called, err := runTransport(t, req)
	if err != nil || !called {
		t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
	}
	if got, _ := c.Get(CtxAccessToken).(string); got != "acc-token" {
		t.Fatalf("access token not extracted: %q", got)
	}
	if got, _ := c.Get(CtxRefreshToken).(string); got != "ref-token" {
		t.Fatalf("refresh token not extracted: %q", got)
	}
	if got, _ := c.Get(CtxClientType).(string); got != domain.ClientWeb {
		t.Fatalf("client type not recorded: %q", got)
	}
}

func TestTransport_MobileReadsHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	req.Header.Set("x-client-type", domain.ClientMobile)
	req.Header.Set("Authorization", "Bearer acc-token")
	req.Header.Add("x-refresh-token", "ref-token")
	req.Header.Add("x-refresh-token", "second-value")

	c, called, err := runTransport(t, req)
	if err != nil || !called {
		t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
	}
	if got, _ := c.Get(CtxAccessToken).(string); got != "acc-token" {
		t.Fatalf("bearer token not extracted: %q", got)
	}
	// First header value wins on duplicates.
	if got, _ := c.Get(CtxRefreshToken).(string); got != "ref-token" {
		t.Fatalf("refresh token not extracted: %q", got)
	}
}

func TestTransport_MissingRefreshToken(t *testing.T) {
	// A fresh access token is not enough: the refresh credential is
	// mandatory on the session routes.
	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	req.Header.Set("x-client-type", domain.ClientMobile)
	req.Header.Set("Authorization", "Bearer acc-token")

	_, called, err := runTransport(t, req)
	if called {
		t.Fatalf("next handler must not run without a refresh token")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestTransport_MalformedAuthorizationHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	req.Header.Set("x-client-type", domain.ClientMobile)
	req.Header.Set("Authorization", "Token abc")
	req.Header.Set("x-refresh-token", "ref-token")

	c, called, err := runTransport(t, req)
	if err != nil || !called {
		t.Fatalf("expected pass-through, got err=%v called=%v", err, called)
	}
	// A non-bearer scheme leaves the access token empty; the auth
	// middleware then falls through to renewal.
	if got, _ := c.Get(CtxAccessToken).(string); got != "" {
		t.Fatalf("expected empty access token, got %q", got)
	}
}
