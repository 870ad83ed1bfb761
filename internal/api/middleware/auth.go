package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
	"github.com/ratemyrecipe/recipe-auth/internal/core/ports"
)

// authContextKey is the echo context key holding the *domain.AuthContext.
const authContextKey = "auth"

// Auth runs the access gate on every request and attaches the authenticated
// caller to both the echo context and the request context. Failures are
// returned to the HTTP error handler untouched.
func Auth(gate ports.AccessGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ac, err := gate.Authenticate(req.Context(), req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			c.Set(authContextKey, ac)
			c.SetRequest(req.WithContext(domain.WithAuthContext(req.Context(), ac)))
			return next(c)
		}
	}
}

// AuthContext returns the caller attached by Auth.
func AuthContext(c echo.Context) (*domain.AuthContext, bool) {
	ac, ok := c.Get(authContextKey).(*domain.AuthContext)
	return ac, ok && ac != nil
}
