package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

// RequireRole restricts a route group to the given roles. The role claim is
// injected by Auth; a missing claim fails closed.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
