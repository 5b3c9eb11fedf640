package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/productosnova/kpop-albums-api/internal/core/domain"
)

// RequireRoles gates a route to a fixed set of roles, configured once at
// startup. The comparison is an exact match on the authenticated role; a
// valid session with the wrong role is always a 403, never a 401.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, rol := range allowed {
		allowedSet[rol] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rol, _ := c.Get(CtxRol).(string)
			if _, ok := allowedSet[domain.Role(rol)]; !ok {
				return reject(c, http.StatusForbidden, "Acceso denegado")
			}
			return next(c)
		}
	}
}
