package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

func rbacContext(roles ...domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if roles != nil {
		c.Set(authContextKey, &domain.AuthContext{Username: "alice", Roles: roles})
	}
	return c, rec
}

func TestRBAC_Allows(t *testing.T) {
	cases := [][]domain.Role{
		{domain.RoleAdmin},
		{domain.RoleUser, domain.RoleAdmin},
	}
	for _, roles := range cases {
		c, rec := rbacContext(roles...)

		called := false
		handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})

		if err := handler(c); err != nil {
			t.Fatalf("roles %v: handler error: %v", roles, err)
		}
		if !called || rec.Code != http.StatusOK {
			t.Fatalf("roles %v: next handler not called", roles)
		}
	}
}

func TestRBAC_Forbids(t *testing.T) {
	c, _ := rbacContext(domain.RoleUser)

	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_WithoutAuthContext(t *testing.T) {
	c, _ := rbacContext()

	handler := RBAC(domain.RoleUser, domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
