package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	mw "github.com/mitraportal/partner-system/internal/api/middleware"
	"github.com/mitraportal/partner-system/internal/core/domain"
	"github.com/mitraportal/partner-system/internal/core/ports"
)

type stubAuthService struct {
	loginFn        func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutUserID   string
	changeOld      string
	changeNew      string
	verifiedTokens []string
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Renew(context.Context, string) (*ports.RenewResult, error) {
	panic("not used")
}

func (s *stubAuthService) Logout(_ context.Context, userID string) error {
	s.logoutUserID = userID
	return nil
}

func (s *stubAuthService) ChangePassword(_ context.Context, _, oldPassword, newPassword string) error {
	s.changeOld, s.changeNew = oldPassword, newPassword
	return nil
}

func (s *stubAuthService) VerifyEmail(_ context.Context, token string) error {
	s.verifiedTokens = append(s.verifiedTokens, token)
	return nil
}

func okLogin(context.Context, string, string) (*ports.LoginResult, error) {
	return &ports.LoginResult{
		UserID:       "user-1",
		AccessToken:  "the-access-token",
		RefreshToken: "the-refresh-token",
	}, nil
}

func newSigninContext(t *testing.T, clientType string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	body := `{"email":"a@example.com","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if clientType != "" {
		req.Header.Set("x-client-type", clientType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Signin_WebDeliversCookies(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginFn: okLogin}, false)
	c, rec := newSigninContext(t, domain.ClientWeb)

	if err := h.Signin(c); err != nil {
		t.Fatalf("Signin returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	cookies := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		cookies[ck.Name] = ck
	}
	access, ok := cookies[mw.AccessCookieName]
	if !ok || access.Value != "the-access-token" {
		t.Fatalf("access cookie missing or wrong: %+v", access)
	}
	if access.HttpOnly {
		t.Fatalf("access cookie must be readable by page scripts")
	}
	refresh, ok := cookies[mw.RefreshCookieName]
	if !ok || refresh.Value != "the-refresh-token" {
		t.Fatalf("refresh cookie missing or wrong: %+v", refresh)
	}
	if !refresh.HttpOnly {
		t.Fatalf("refresh cookie must be httpOnly")
	}

	// Tokens never appear in the web response body.
	if strings.Contains(rec.Body.String(), "the-access-token") || strings.Contains(rec.Body.String(), "the-refresh-token") {
		t.Fatalf("web body must not carry tokens: %s", rec.Body.String())
	}
}

func TestAuthHandler_Signin_MobileDeliversBody(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginFn: okLogin}, false)
	c, rec := newSigninContext(t, domain.ClientMobile)

	if err := h.Signin(c); err != nil {
		t.Fatalf("Signin returned error: %v", err)
	}

	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.AccessToken != "the-access-token" || resp.RefreshToken != "the-refresh-token" {
		t.Fatalf("tokens missing from body: %+v", resp)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("mobile signin must not set cookies")
	}
}

func TestAuthHandler_Signin_PropagatesLoginError(t *testing.T) {
	svc := &stubAuthService{loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
		return nil, domain.ErrBadCredentials
	}}
	h := NewAuthHandler(svc, false)
	c, _ := newSigninContext(t, domain.ClientWeb)

	if err := h.Signin(c); err != domain.ErrBadCredentials {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthHandler_Reauth(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)
	e := echo.New()

	// Mobile renewal: the middleware left the fresh token in the context.
	req := httptest.NewRequest(http.MethodPost, "/api/auth", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(mw.CtxNewAccessToken, "renewed-access")

	if err := h.Reauth(c); err != nil {
		t.Fatalf("Reauth returned error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["newAccessToken"] != "renewed-access" {
		t.Fatalf("renewed token missing from body: %v", resp)
	}

	// No renewal this request: the field stays absent.
	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth", nil), rec)
	if err := h.Reauth(c); err != nil {
		t.Fatalf("Reauth returned error: %v", err)
	}
	resp = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if _, present := resp["newAccessToken"]; present {
		t.Fatalf("newAccessToken must be omitted without a renewal: %v", resp)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, false)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(mw.CtxClaims, &domain.TokenClaims{UserID: "user-1"})
	c.Set(mw.CtxClientType, domain.ClientWeb)

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if svc.logoutUserID != "user-1" {
		t.Fatalf("logout called for wrong user: %q", svc.logoutUserID)
	}

	// Web logout expires both cookies.
	expired := 0
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			expired++
		}
	}
	if expired != 2 {
		t.Fatalf("expected both auth cookies expired, got %d", expired)
	}
}

func TestAuthHandler_Logout_WithoutClaims(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), httptest.NewRecorder())

	err := h.Logout(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, false)
	e := echo.New()
	body := `{"old_password":"old-pw","new_password":"new-pw"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/pass", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(mw.CtxClaims, &domain.TokenClaims{UserID: "user-1"})

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if svc.changeOld != "old-pw" || svc.changeNew != "new-pw" {
		t.Fatalf("service called with wrong passwords: %q %q", svc.changeOld, svc.changeNew)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc, false)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token=tok-1", nil)
	rec := httptest.NewRecorder()
	if err := h.VerifyEmail(e.NewContext(req, rec)); err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}
	if len(svc.verifiedTokens) != 1 || svc.verifiedTokens[0] != "tok-1" {
		t.Fatalf("verify called with wrong token: %v", svc.verifiedTokens)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/verify-email", nil)
	err := h.VerifyEmail(e.NewContext(req, httptest.NewRecorder()))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %v", err)
	}
}
