package service

import (
	"time"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

// BlockEnforcer rejects users whose suspension window has not elapsed.
// Status is computed from BlockExpiresAt on every call and never cached.
type BlockEnforcer struct {
	now func() time.Time
}

// NewBlockEnforcer returns an enforcer reading time from now (time.Now when nil).
func NewBlockEnforcer(now func() time.Time) *BlockEnforcer {
	if now == nil {
		now = time.Now
	}
	return &BlockEnforcer{now: now}
}

func (b *BlockEnforcer) Check(user *domain.User) error {
	if user.IsBlocked(b.now()) {
		return domain.ErrAccountBlocked
	}
	return nil
}
