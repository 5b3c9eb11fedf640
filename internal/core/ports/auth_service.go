package ports

import (
	"context"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

// RegisterInput carries the raw registration fields. Numeric values arrive as
// strings (form or JSON) and are normalized during validation.
type RegisterInput struct {
	Nombre         string
	Apellido       string
	Edad           string
	NumeroTelefono string
	Correo         string
	Password       string
}

// LoginResult is the successful outcome of a credential check.
type LoginResult struct {
	Token     string
	User      *domain.User
	ExpiresIn int // seconds until the token expires
}

// TokenClaims is the decoded payload of a verified session token.
type TokenClaims struct {
	UserID string
	Rol    domain.Role
	Correo string
}

// AuthService covers registration, credential checks and session lookups.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, correo, password string) (*LoginResult, error)
	// CurrentUser resolves the account behind a verified token.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
