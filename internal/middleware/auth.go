package middleware

import (
	"net/http"
	"strings"

	"github.com/crescieperdi/portal-interno/internal/auth"
	"github.com/labstack/echo/v4"
)

// Chaves do contexto echo preenchidas pelo middleware de autenticação
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// RequireAuth valida o bearer token e injeta user_id e role no contexto
func RequireAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole restringe a rota aos papéis informados; aplicar após RequireAuth
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

// UserID retorna o id do usuário autenticado do contexto
func UserID(c echo.Context) int64 {
	id, _ := c.Get(ContextUserID).(int64)
	return id
}

// Role retorna o papel do usuário autenticado do contexto
func Role(c echo.Context) string {
	role, _ := c.Get(ContextRole).(string)
	return role
}
