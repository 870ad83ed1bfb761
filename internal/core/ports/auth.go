package ports

import (
	"context"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

// PasswordHasher is the credential-verification collaborator.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches hash.
	Verify(plaintext, hash string) bool
}

// TokenCodec issues and validates bearer tokens. Validate fails with
// domain.ErrTokenInvalid or domain.ErrTokenExpired.
type TokenCodec interface {
	Issue(username string) (string, error)
	Validate(token string) (string, error)
}

// IdentityResolver maps a token subject to the stored user.
type IdentityResolver interface {
	Resolve(ctx context.Context, username string) (*domain.User, error)
}

// AccessGate authenticates a single inbound request from its Authorization header.
type AccessGate interface {
	Authenticate(ctx context.Context, authorization string) (*domain.AuthContext, error)
}

// AuditPublisher accepts audit events without blocking the caller.
type AuditPublisher interface {
	Publish(event domain.AuditEvent)
}

// SignupInput carries a self-service registration.
type SignupInput struct {
	Username  string
	Password  string
	Email     string
	RoleHints []string
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService implements self-service signup and login.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
}

// AdminService implements the admin-only account suspension surface.
type AdminService interface {
	Block(ctx context.Context, userID string, days int) (*domain.User, error)
	Unblock(ctx context.Context, userID string) (*domain.User, error)
}
