package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// TokenCookie is the session cookie name shared with the auth handler.
const TokenCookie = "token"

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRol    = "rol"
	CtxCorreo = "correo"
)

const (
	apiPrefix = "/api"
	loginPage = "/login.html"
)

// Auth validates the session token and injects its claims into the request
// context. The token is read from the Authorization header first, then from
// the session cookie; verification is pure signature+expiry checking and
// never touches the store.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return reject(c, http.StatusUnauthorized, "No autorizado")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return reject(c, http.StatusUnauthorized, "Token inválido o expirado")
			}

			c.Set(CtxUserID, str(claims["id"]))
			c.Set(CtxRol, str(claims["rol"]))
			c.Set(CtxCorreo, str(claims["correo"]))

			return next(c)
		}
	}
}

// extractToken prefers the Authorization header over the cookie when both
// are present.
func extractToken(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// reject returns a JSON error for API clients, but sends browser page
// navigations to the login page instead. The redirect is a UX accommodation
// for the static frontend — the protected resource is still denied.
func reject(c echo.Context, code int, message string) error {
	if isPageNavigation(c) {
		return c.Redirect(http.StatusFound, loginPage)
	}
	return echo.NewHTTPError(code, message)
}

func isPageNavigation(c echo.Context) bool {
	req := c.Request()
	return req.Method == http.MethodGet &&
		strings.Contains(req.Header.Get("Accept"), "text/html") &&
		!strings.HasPrefix(req.URL.Path, apiPrefix)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
