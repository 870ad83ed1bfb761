package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
	"github.com/ratemyrecipe/recipe-auth/internal/core/ports"
)

// CredentialVerifier checks a username/password pair against the stored hash.
type CredentialVerifier struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
}

func NewCredentialVerifier(repo ports.UserRepository, hasher ports.PasswordHasher) *CredentialVerifier {
	return &CredentialVerifier{repo: repo, hasher: hasher}
}

// Verify returns the matching user. An unknown username and a wrong password
// both yield domain.ErrInvalidCredentials.
func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := v.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !v.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
