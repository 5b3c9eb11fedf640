package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
	"github.com/productosnova/kpop-albums-api/internal/core/validate"
)

// UserService implements the administrative account use-cases.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// Create registers an account on behalf of an administrator. The same field
// rules as self-registration apply, plus an explicit role assignment.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	user, verr := validate.Registration(ports.RegisterInput{
		Nombre:         input.Nombre,
		Apellido:       input.Apellido,
		Edad:           input.Edad,
		NumeroTelefono: input.NumeroTelefono,
		Correo:         input.Correo,
		Password:       input.Password,
	})
	if verr != nil {
		return nil, verr
	}

	rol := domain.RoleUsuario
	if input.Rol != "" {
		parsed, ok := domain.ParseRole(input.Rol)
		if !ok {
			return nil, domain.NewValidationError("Rol inválido. Debe ser Usuario, Admin o Gerente")
		}
		rol = parsed
	}

	if _, err := s.users.FindByCorreo(ctx, user.Correo); err == nil {
		return nil, domain.ErrCorreoRegistrado
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.PasswordHash = string(hash)
	user.Rol = rol
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("correo", created.Correo).Str("rol", string(created.Rol)).Msg("usuario creado por administración")
	return created, nil
}

// Update applies a partial patch to an account. Role changes are an
// Admin-only operation regardless of which role may reach the route.
func (s *UserService) Update(ctx context.Context, id string, patch map[string]any, caller domain.Role) (*domain.User, error) {
	campos, verr := validate.UserPatch(patch)
	if verr != nil {
		return nil, verr
	}
	if _, ok := campos["rol"]; ok && caller != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	campos["updatedAt"] = time.Now().UTC()

	updated, err := s.users.Update(ctx, id, campos)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", id).Msg("usuario actualizado")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("usuario eliminado")
	return nil
}
