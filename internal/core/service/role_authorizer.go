package service

import "github.com/ratemyrecipe/recipe-auth/internal/core/domain"

// Require succeeds when the caller holds at least one of the allowed roles.
func Require(ac *domain.AuthContext, allowed ...domain.Role) error {
	if ac == nil {
		return domain.ErrUnauthenticated
	}
	if !domain.HasAnyRole(ac.Roles, allowed...) {
		return domain.ErrForbidden
	}
	return nil
}
