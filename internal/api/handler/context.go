package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vitrine/storefront/internal/api/middleware"
	"github.com/vitrine/storefront/internal/core/domain"
)

// currentUser returns the user resolved by the Auth middleware. A missing
// user means the route was wired without Auth; treat it as unauthenticated.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrMissingToken
	}
	return user, nil
}

// bindAndValidate decodes the JSON body into req and runs the registered
// validator. Both failures surface as validation errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.Invalid("invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return domain.Invalid("%s", err.Error())
	}
	return nil
}
