package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

// errorEnvelope is the canonical error body: the same {success, message}
// shape the success responses use, plus an itemized list for validation
// failures.
type errorEnvelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errores []string `json:"errores,omitempty"`
}

// NewHTTPErrorHandler returns the central error translator. Domain errors map
// to fixed status codes; store-level error shapes never reach the client, and
// anything unrecognized is logged and flattened to a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorEnvelope) {
	// Validation failures carry their own itemized list.
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, errorEnvelope{
			Message: "Errores de validación",
			Errores: verr.Errores,
		}
	}

	// Echo's own errors: bind failures, router 404/405, middleware rejections.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorEnvelope{Message: fmt.Sprintf("%v", he.Message)}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorEnvelope{Message: "Credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorEnvelope{Message: "Acceso denegado"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorEnvelope{Message: "Usuario no encontrado"}
	case errors.Is(err, domain.ErrAlbumNotFound):
		return http.StatusNotFound, errorEnvelope{Message: "Álbum no encontrado"}
	case errors.Is(err, domain.ErrCorreoRegistrado):
		return http.StatusConflict, errorEnvelope{Message: "El correo ya está registrado"}
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, errorEnvelope{Message: "ID no válido"}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorEnvelope{Message: "Demasiados intentos fallidos, intenta más tarde"}
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, errorEnvelope{Message: "Error de conexión a la base de datos"}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorEnvelope{Message: "Error interno del servidor"}
}
