package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portway/gatekeeper/internal/core/domain"
)

// RBAC enforces role-based access control against an explicit allowed set.
// Membership is the whole policy: listing trusted_user does not implicitly
// admit admin, so every route names every role it accepts.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.Authorized(role, allowedRoles...) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
