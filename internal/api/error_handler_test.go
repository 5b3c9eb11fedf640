package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

func render(t *testing.T, err error) (int, errorEnvelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/albums", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	return rec.Code, body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Credenciales inválidas"},
		{domain.ErrForbidden, http.StatusForbidden, "Acceso denegado"},
		{domain.ErrUserNotFound, http.StatusNotFound, "Usuario no encontrado"},
		{domain.ErrAlbumNotFound, http.StatusNotFound, "Álbum no encontrado"},
		{domain.ErrCorreoRegistrado, http.StatusConflict, "El correo ya está registrado"},
		{domain.ErrInvalidID, http.StatusBadRequest, "ID no válido"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "Demasiados intentos fallidos, intenta más tarde"},
		{domain.ErrStoreUnavailable, http.StatusServiceUnavailable, "Error de conexión a la base de datos"},
	}

	for _, tc := range cases {
		code, body := render(t, tc.err)
		if code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
		if body.Success {
			t.Fatalf("%v: success must be false", tc.err)
		}
		if body.Message != tc.msg {
			t.Fatalf("%v: expected %q, got %q", tc.err, tc.msg, body.Message)
		}
	}
}

func TestErrorHandler_ValidationErrorListsMessages(t *testing.T) {
	code, body := render(t, domain.NewValidationError(
		"El campo 'precio' es requerido",
		"El campo 'stock' es requerido",
	))
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Message != "Errores de validación" || len(body.Errores) != 2 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestErrorHandler_UnknownErrorIsOpaque500(t *testing.T) {
	code, body := render(t, errShape{})
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body.Message != "Error interno del servidor" {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
}

type errShape struct{}

func (errShape) Error() string { return "mongo: connection(localhost:27017) failed" }
