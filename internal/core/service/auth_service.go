package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
	"github.com/productosnova/kpop-albums-api/internal/core/validate"
)

// AuthService implements registration, login and session lookups. Token
// verification lives in the auth middleware; this service only issues.
type AuthService struct {
	users      ports.UserRepository
	limiter    ports.LoginLimiter
	jwtSecret  string
	sessionTTL time.Duration
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, limiter ports.LoginLimiter, jwtSecret string, sessionTTL time.Duration, logger zerolog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &AuthService{
		users:      users,
		limiter:    limiter,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Register creates an account with the least-privileged role. Field rules run
// in a fixed order and the first failure wins; the duplicate-email check runs
// against the normalized address and the unique index backs it up on races.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	user, verr := validate.Registration(input)
	if verr != nil {
		return nil, verr
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
	user.Rol = domain.RoleUsuario
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("correo", created.Correo).Msg("usuario registrado")
	return created, nil
}

// Login checks the credentials and issues a signed session token. Unknown
// email and wrong password are indistinguishable to the caller: both return
// ErrInvalidCredentials so the endpoint cannot be used as an email oracle.
func (s *AuthService) Login(ctx context.Context, correo, password string) (*ports.LoginResult, error) {
	if correo == "" || password == "" {
		return nil, domain.NewValidationError("Correo y contraseña son requeridos")
	}
	correo = validate.NormalizeEmail(correo)

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, correo)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login limiter unavailable")
		} else if blocked {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByCorreo(ctx, correo)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		if s.limiter != nil {
			if err := s.limiter.RecordFailure(ctx, correo); err != nil {
				s.logger.Warn().Err(err).Msg("login limiter unavailable")
			}
		}
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, correo); err != nil {
			s.logger.Warn().Err(err).Msg("login limiter unavailable")
		}
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("correo", user.Correo).Str("rol", string(user.Rol)).Msg("sesión iniciada")
	return &ports.LoginResult{
		Token:     token,
		User:      user,
		ExpiresIn: int(s.sessionTTL.Seconds()),
	}, nil
}

// CurrentUser resolves the account behind a verified token.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) signToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"id":     user.ID,
		"rol":    string(user.Rol),
		"correo": user.Correo,
		"exp":    time.Now().Add(s.sessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
