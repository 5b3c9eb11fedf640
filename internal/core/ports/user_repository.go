package ports

import (
	"context"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

// UserRepository defines persistence operations for accounts. Correo is the
// natural key; uniqueness is enforced by the store (unique index) and surfaces
// as domain.ErrCorreoRegistrado.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByCorreo(ctx context.Context, correo string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns all accounts, newest first.
	List(ctx context.Context) ([]*domain.User, error)
	// Update applies the given normalized fields and returns the updated user.
	Update(ctx context.Context, id string, campos map[string]any) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
