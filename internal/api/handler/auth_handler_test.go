package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/productosnova/kpop-albums-api/internal/api/middleware"
	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

type stubAuthService struct {
	registered  *domain.User
	registerErr error
	loginResult *ports.LoginResult
	loginErr    error
	current     *domain.User
}

func (s *stubAuthService) Register(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
	return s.registered, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (*ports.LoginResult, error) {
	return s.loginResult, s.loginErr
}

func (s *stubAuthService) CurrentUser(_ context.Context, _ string) (*domain.User, error) {
	if s.current == nil {
		return nil, domain.ErrUserNotFound
	}
	return s.current, nil
}

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rec.Result()
	for _, cookie := range res.Cookies() {
		if cookie.Name == middleware.TokenCookie {
			return cookie
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	user := &domain.User{ID: "u1", Correo: "ana@example.com", Rol: domain.RoleUsuario}
	svc := &stubAuthService{loginResult: &ports.LoginResult{Token: "tok123", User: user, ExpiresIn: 3600}}
	h := NewAuthHandler(svc, false)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/login",
		`{"correo":"ana@example.com","password":"secreta1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookie := sessionCookieFrom(t, rec)
	if cookie.Value != "tok123" {
		t.Fatalf("unexpected cookie value: %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatalf("cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie must be SameSite=Lax")
	}
	if cookie.MaxAge != 3600 {
		t.Fatalf("expected Max-Age 3600, got %d", cookie.MaxAge)
	}

	var body loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if !body.Success || body.Token != "tok123" || body.ExpiresIn != 3600 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAuthHandler_Login_SecureCookieInProduction(t *testing.T) {
	svc := &stubAuthService{loginResult: &ports.LoginResult{Token: "tok", User: &domain.User{}, ExpiresIn: 60}}
	h := NewAuthHandler(svc, true)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/login", `{"correo":"a@b.co","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !sessionCookieFrom(t, rec).Secure {
		t.Fatalf("cookie must be Secure in production")
	}
}

func TestAuthHandler_Login_ErrorPassesThrough(t *testing.T) {
	svc := &stubAuthService{loginErr: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc, false)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/login", `{"correo":"a@b.co","password":"mala"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set a cookie")
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, false)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	cookie := sessionCookieFrom(t, rec)
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected expired empty cookie, got value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
	}
}

func TestAuthHandler_Register_Created(t *testing.T) {
	user := &domain.User{ID: "u2", Correo: "nuevo@example.com", Rol: domain.RoleUsuario}
	h := NewAuthHandler(&stubAuthService{registered: user}, false)

	c, rec := newAuthContext(t, http.MethodPost, "/api/auth/register",
		`{"nombre":"Ana","apellido":"Kim","edad":22,"numeroTelefono":"5511223344","correo":"nuevo@example.com","password":"secreta1"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "passwordHash") {
		t.Fatalf("hash leaked in response: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_DuplicatePassesThrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{registerErr: domain.ErrCorreoRegistrado}, false)

	c, _ := newAuthContext(t, http.MethodPost, "/api/auth/register", `{"correo":"dup@example.com"}`)
	if err := h.Register(c); !errors.Is(err, domain.ErrCorreoRegistrado) {
		t.Fatalf("expected ErrCorreoRegistrado, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	user := &domain.User{ID: "u1", Correo: "ana@example.com"}
	h := NewAuthHandler(&stubAuthService{current: user}, false)

	c, rec := newAuthContext(t, http.MethodGet, "/api/auth/me", "")
	c.Set(middleware.CtxUserID, "u1")

	if err := h.Me(c); err != nil {
		t.Fatalf("me failed: %v", err)
	}
	var body userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.User == nil || body.User.Correo != "ana@example.com" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
