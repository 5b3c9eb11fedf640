package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/productosnova/kpop-albums-api/internal/api/metrics"
	"github.com/productosnova/kpop-albums-api/internal/api/middleware"
	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

// AuthHandler handles registration, login and session endpoints. The session
// travels both as a response field and as an HttpOnly cookie so the static
// frontend works without any token plumbing in JavaScript.
type AuthHandler struct {
	auth          ports.AuthService
	secureCookies bool
}

func NewAuthHandler(auth ports.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookies: secureCookies}
}

type registerRequest struct {
	Nombre         string `json:"nombre" form:"nombre"`
	Apellido       string `json:"apellido" form:"apellido"`
	Edad           any    `json:"edad" form:"edad"`
	NumeroTelefono string `json:"numeroTelefono" form:"numeroTelefono"`
	Correo         string `json:"correo" form:"correo"`
	Password       string `json:"password" form:"password"`
}

type loginRequest struct {
	Correo   string `json:"correo" form:"correo"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	User      *domain.User `json:"user"`
	ExpiresIn int          `json:"expiresIn"`
}

type userResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

// Register creates a public account with the least-privileged role.
//
// @Summary      Registrar un usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Datos de registro"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	user, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Nombre:         req.Nombre,
		Apellido:       req.Apellido,
		Edad:           scalarString(req.Edad),
		NumeroTelefono: req.NumeroTelefono,
		Correo:         req.Correo,
		Password:       req.Password,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, userResponse{
		Success: true,
		Message: "Usuario registrado exitosamente",
		User:    user,
	})
}

// Login checks credentials and opens a session.
//
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credenciales"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  map[string]any
// @Failure      429   {object}  map[string]any
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	res, err := h.auth.Login(c.Request().Context(), req.Correo, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.sessionCookie(res.Token, res.ExpiresIn))
	return c.JSON(http.StatusOK, loginResponse{
		Success:   true,
		Message:   "Inicio de sesión exitoso",
		Token:     res.Token,
		User:      res.User,
		ExpiresIn: res.ExpiresIn,
	})
}

// Logout clears the session cookie. Tokens are stateless, so logging out is
// purely a client-side affair: the cookie is expired and nothing is revoked.
//
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Sesión cerrada exitosamente",
	})
}

// Me returns the account behind the current session.
//
// @Summary      Usuario actual
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]any
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.auth.CurrentUser(c.Request().Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: user})
}

func (h *AuthHandler) sessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func loginOutcome(err error) string {
	if errors.Is(err, domain.ErrTooManyAttempts) {
		return "throttled"
	}
	return "failure"
}
