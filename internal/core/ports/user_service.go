package ports

import (
	"context"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

// CreateUserInput carries the raw fields for administrative account creation.
type CreateUserInput struct {
	Nombre         string
	Apellido       string
	Edad           string
	NumeroTelefono string
	Correo         string
	Password       string
	Rol            string
}

// UserService defines the administrative account use-cases behind /users.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// Update applies a partial patch; correo is immutable and role changes are
	// limited to the values the caller's own role may assign.
	Update(ctx context.Context, id string, patch map[string]any, caller domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
