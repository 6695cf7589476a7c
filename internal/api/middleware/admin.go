package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/vitrine/storefront/internal/core/domain"
)

// RequireAdmin must run after Auth. It rejects users without the admin flag.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if !user.IsAdmin {
				return domain.ErrAdminRequired
			}
			return next(c)
		}
	}
}
