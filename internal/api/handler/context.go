package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/productosnova/kpop-albums-api/internal/api/middleware"
	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

// callerID returns the authenticated user id injected by the auth middleware.
func callerID(c echo.Context) string {
	id, _ := c.Get(middleware.CtxUserID).(string)
	return id
}

func callerRol(c echo.Context) domain.Role {
	rol, _ := c.Get(middleware.CtxRol).(string)
	return domain.Role(rol)
}
