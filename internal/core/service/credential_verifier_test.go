package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

func TestCredentialVerifier_Verify(t *testing.T) {
	repo := newMemUserRepo()
	repo.seed(&domain.User{Username: "alice", PasswordHash: "hashed:secret"})
	v := NewCredentialVerifier(repo, plainHasher{})

	cases := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"match", "alice", "secret", nil},
		{"wrong password", "alice", "nope", domain.ErrInvalidCredentials},
		{"unknown user", "mallory", "secret", domain.ErrInvalidCredentials},
		{"empty password", "alice", "", domain.ErrInvalidCredentials},
		{"empty username", "", "secret", domain.ErrInvalidCredentials},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := v.Verify(context.Background(), tc.username, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if tc.wantErr == nil && user.Username != "alice" {
				t.Fatalf("unexpected user %+v", user)
			}
		})
	}
}

func TestCredentialVerifier_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	repo := newMemUserRepo()
	repo.err = errStore
	v := NewCredentialVerifier(repo, plainHasher{})

	_, err := v.Verify(context.Background(), "alice", "secret")
	if errors.Is(err, domain.ErrInvalidCredentials) || !errors.Is(err, errStore) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
