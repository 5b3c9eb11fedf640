package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
	"github.com/productosnova/kpop-albums-api/internal/core/ports"
)

// UserHandler handles administrative account management.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Nombre         string `json:"nombre"`
	Apellido       string `json:"apellido"`
	Edad           any    `json:"edad"`
	NumeroTelefono string `json:"numeroTelefono"`
	Correo         string `json:"correo"`
	Password       string `json:"password"`
	Rol            string `json:"rol"`
}

type usersResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Users   []*domain.User `json:"users"`
}

// List returns every account, newest first.
//
// @Summary      Listar usuarios
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      403  {object}  map[string]any
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersResponse{Success: true, Count: len(users), Users: users})
}

// Get returns a single account by id.
//
// @Summary      Obtener un usuario
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID del usuario"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]any
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{Success: true, User: user})
}

// Create adds an account with an explicit role. Same field rules as public
// registration.
//
// @Summary      Crear un usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Datos del usuario"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	user, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
		Nombre:         req.Nombre,
		Apellido:       req.Apellido,
		Edad:           scalarString(req.Edad),
		NumeroTelefono: req.NumeroTelefono,
		Correo:         req.Correo,
		Password:       req.Password,
		Rol:            req.Rol,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{
		Success: true,
		Message: "Usuario creado exitosamente",
		User:    user,
	})
}

// Update applies a partial patch to an account. Role changes are limited to
// what the caller's own role may assign.
//
// @Summary      Actualizar un usuario
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "ID del usuario"
// @Param        body  body      map[string]any  true  "Campos a actualizar"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /api/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	patch := map[string]any{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Cuerpo de la petición inválido")
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("id"), patch, callerRol(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{
		Success: true,
		Message: "Usuario actualizado exitosamente",
		User:    user,
	})
}

// Delete removes an account permanently.
//
// @Summary      Eliminar un usuario
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "ID del usuario"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Usuario eliminado exitosamente",
	})
}
