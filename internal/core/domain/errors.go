package domain

import (
	"errors"
	"strings"
)

// Sentinel errors. The API error handler maps each of these to a fixed HTTP
// status so repositories and services never reason about status codes.
var (
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrCorreoRegistrado   = errors.New("el correo ya está registrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrAlbumNotFound      = errors.New("álbum no encontrado")
	ErrInvalidID          = errors.New("id no válido")
	ErrForbidden          = errors.New("acceso denegado")
	ErrTooManyAttempts    = errors.New("demasiados intentos fallidos")
	ErrStoreUnavailable   = errors.New("error de conexión a la base de datos")
)

// ValidationError carries one or more field-rule failures. The catalog create
// path aggregates every failure; registration stops at the first one, so its
// list always holds a single message.
type ValidationError struct {
	Errores []string
}

func (e *ValidationError) Error() string {
	if len(e.Errores) == 0 {
		return "errores de validación"
	}
	return strings.Join(e.Errores, "; ")
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(errores ...string) *ValidationError {
	return &ValidationError{Errores: errores}
}
