package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/movielab/movie-reservation/internal/model"
)

// RequireRole aborts with 403 unless the authenticated user's role is
// one of the given roles. It assumes JWTAuth already ran and stored
// the role claim under CtxRole.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[string(r)] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
