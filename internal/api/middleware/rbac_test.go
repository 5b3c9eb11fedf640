package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

func rbacContext(t *testing.T, rol string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/albums/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if rol != "" {
		c.Set(CtxRol, rol)
	}
	return c, rec
}

func TestRequireRoles_AllowedRolePasses(t *testing.T) {
	c, _ := rbacContext(t, "Gerente")

	called := false
	handler := RequireRoles(domain.RoleAdmin, domain.RoleGerente)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestRequireRoles_WrongRoleIsForbiddenNotUnauthorized(t *testing.T) {
	// A valid session with the wrong role must be a 403, never a 401.
	c, _ := rbacContext(t, "Usuario")

	handler := RequireRoles(domain.RoleAdmin, domain.RoleGerente)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRequireRoles_MissingRole(t *testing.T) {
	c, _ := rbacContext(t, "")

	handler := RequireRoles(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}
