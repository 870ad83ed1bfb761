package ports

import (
	"context"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

// UserRepository is the user-lookup collaborator of the auth core.
// Lookups return domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Create inserts a new user and returns it with its assigned ID.
	// A username or email collision yields domain.ErrUserExists or domain.ErrEmailInUse.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Save persists the mutable fields (email, roles, block expiry) of an existing user.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}

// AuditRepository persists security audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}
