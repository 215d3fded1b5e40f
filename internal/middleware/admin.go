package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin returns a middleware enforcing that the authenticated
// caller carries the admin flag. It assumes TokenAuth already ran and
// stored the flag in the context; a valid non-admin credential is
// rejected with 403. Garage and spot mutations are the only routes
// gated this way.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin, ok := c.Get(CtxIsAdmin).(bool)
			if !ok || !admin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "this function is restricted to admin users"})
			}
			return next(c)
		}
	}
}
