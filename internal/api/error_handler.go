package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ratemyrecipe/recipe-auth/internal/api/handler"
	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes and stable codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<code>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	// Echo's own errors (404 from router, 429 from the rate limiter, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Error: fmt.Sprintf("%v", he.Message), Code: httpCode(he.Code)}
	}

	// Known domain errors → deterministic HTTP codes. Token failures never
	// reach here from the access gate; they are listed so a stray one still
	// reads as "log in again".
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: "invalid username or password", Code: "invalid_credentials"}
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, handler.ErrorResponse{Error: "authentication required", Code: "unauthenticated"}
	case errors.Is(err, domain.ErrAccountBlocked):
		return http.StatusForbidden, handler.ErrorResponse{Error: "account is blocked", Code: "account_blocked"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, handler.ErrorResponse{Error: "access forbidden", Code: "forbidden"}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, handler.ErrorResponse{Error: "too many failed login attempts, try again later", Code: "too_many_attempts"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, handler.ErrorResponse{Error: "username is already taken", Code: "user_exists"}
	case errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict, handler.ErrorResponse{Error: "email is already in use", Code: "email_in_use"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, handler.ErrorResponse{Error: "user not found", Code: "user_not_found"}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, handler.ErrorResponse{Error: err.Error(), Code: "invalid_input"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Error: "internal server error", Code: "internal"}
}

func httpCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusBadRequest:
		return "invalid_input"
	default:
		return "http_error"
	}
}
