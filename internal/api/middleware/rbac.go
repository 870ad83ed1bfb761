package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
	"github.com/ratemyrecipe/recipe-auth/internal/core/service"
	"github.com/ratemyrecipe/recipe-auth/internal/pkg/metrics"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ac, _ := AuthContext(c)
			if err := service.Require(ac, allowedRoles...); err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					metrics.ForbiddenTotal.Inc()
				}
				return err
			}
			return next(c)
		}
	}
}
