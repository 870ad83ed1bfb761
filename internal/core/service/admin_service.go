package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
	"github.com/ratemyrecipe/recipe-auth/internal/core/ports"
	"github.com/ratemyrecipe/recipe-auth/internal/pkg/metrics"
)

type adminService struct {
	repo  ports.UserRepository
	audit ports.AuditPublisher
	now   func() time.Time
	log   zerolog.Logger
}

// NewAdminService returns the account suspension service. Role checks happen
// before it is reached; the acting admin is read from the request context for
// the audit trail only.
func NewAdminService(repo ports.UserRepository, audit ports.AuditPublisher, now func() time.Time, log zerolog.Logger) ports.AdminService {
	if audit == nil {
		audit = discardAudit{}
	}
	if now == nil {
		now = time.Now
	}
	return &adminService{
		repo:  repo,
		audit: audit,
		now:   now,
		log:   log,
	}
}

// Block suspends the user for days whole days from now. An existing
// suspension is replaced, not extended.
func (s *adminService) Block(ctx context.Context, userID string, days int) (*domain.User, error) {
	if days < 1 || days > domain.MaxBlockDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", domain.ErrInvalidInput, domain.MaxBlockDays)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("block user: %w", err)
	}

	user.BlockFor(days, s.now())
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("block user: %w", err)
	}

	metrics.AdminActionsTotal.WithLabelValues("block").Inc()
	s.record(ctx, domain.AuditUserBlocked, saved, strconv.Itoa(days)+"d")
	s.log.Info().
		Str("user_id", saved.ID).
		Str("username", saved.Username).
		Time("blocked_until", *saved.BlockExpiresAt).
		Msg("user blocked")

	return saved, nil
}

// Unblock lifts any suspension regardless of the time remaining.
func (s *adminService) Unblock(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("unblock user: %w", err)
	}

	user.Unblock(s.now())
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("unblock user: %w", err)
	}

	metrics.AdminActionsTotal.WithLabelValues("unblock").Inc()
	s.record(ctx, domain.AuditUserUnblocked, saved, "")
	s.log.Info().Str("user_id", saved.ID).Str("username", saved.Username).Msg("user unblocked")

	return saved, nil
}

func (s *adminService) record(ctx context.Context, action domain.AuditAction, user *domain.User, detail string) {
	var actorID string
	if ac, ok := domain.AuthContextFrom(ctx); ok {
		actorID = ac.UserID
	}
	s.audit.Publish(domain.AuditEvent{
		Action:    action,
		Username:  user.Username,
		ActorID:   actorID,
		Detail:    detail,
		Timestamp: s.now().UTC(),
	})
}
