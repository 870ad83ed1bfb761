package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

type stubGate struct {
	gotHeader string
	ac        *domain.AuthContext
	err       error
}

func (g *stubGate) Authenticate(_ context.Context, authorization string) (*domain.AuthContext, error) {
	g.gotHeader = authorization
	return g.ac, g.err
}

func TestAuthMiddleware_AttachesAuthContext(t *testing.T) {
	e := echo.New()
	gate := &stubGate{ac: &domain.AuthContext{
		UserID:   "u1",
		Username: "alice",
		Email:    "a@x.com",
		Roles:    []domain.Role{domain.RoleUser},
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(gate)(func(c echo.Context) error {
		called = true
		ac, ok := AuthContext(c)
		if !ok || ac.Username != "alice" {
			t.Fatalf("auth context not set on echo context")
		}
		fromReq, ok := domain.AuthContextFrom(c.Request().Context())
		if !ok || fromReq.UserID != "u1" {
			t.Fatalf("auth context not set on request context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if gate.gotHeader != "Bearer abc" {
		t.Fatalf("gate received %q", gate.gotHeader)
	}
}

func TestAuthMiddleware_PropagatesGateErrors(t *testing.T) {
	for _, gateErr := range []error{domain.ErrUnauthenticated, domain.ErrAccountBlocked} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Auth(&stubGate{err: gateErr})(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})

		if err := handler(c); !errors.Is(err, gateErr) {
			t.Fatalf("expected %v, got %v", gateErr, err)
		}
	}
}
