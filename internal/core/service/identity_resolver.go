package service

import (
	"context"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
	"github.com/ratemyrecipe/recipe-auth/internal/core/ports"
)

type identityResolver struct {
	repo ports.UserRepository
}

// NewIdentityResolver returns a resolver backed by the user repository.
func NewIdentityResolver(repo ports.UserRepository) ports.IdentityResolver {
	return &identityResolver{repo: repo}
}

func (r *identityResolver) Resolve(ctx context.Context, username string) (*domain.User, error) {
	if username == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.repo.FindByUsername(ctx, username)
}
