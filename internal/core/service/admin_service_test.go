package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

func TestAdminService_Block(t *testing.T) {
	clock := newFakeClock()
	repo := newMemUserRepo()
	audit := &recordingAudit{}
	u := repo.seed(&domain.User{Username: "alice", Roles: []domain.Role{domain.RoleUser}})
	svc := NewAdminService(repo, audit, clock.Now, zerolog.Nop())

	ctx := domain.WithAuthContext(context.Background(), &domain.AuthContext{UserID: "admin-1"})
	blocked, err := svc.Block(ctx, u.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := clock.Now().AddDate(0, 0, 2)
	if blocked.BlockExpiresAt == nil || !blocked.BlockExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, blocked.BlockExpiresAt)
	}
	stored, _ := repo.FindByID(context.Background(), u.ID)
	if !stored.IsBlocked(clock.Now()) {
		t.Fatalf("block not persisted")
	}

	if len(audit.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(audit.events))
	}
	ev := audit.events[0]
	if ev.Action != domain.AuditUserBlocked || ev.ActorID != "admin-1" || ev.Username != "alice" || ev.Detail != "2d" {
		t.Fatalf("unexpected audit event %+v", ev)
	}
}

func TestAdminService_Block_ReplacesExistingBlock(t *testing.T) {
	clock := newFakeClock()
	repo := newMemUserRepo()
	u := repo.seed(&domain.User{Username: "alice"})
	svc := NewAdminService(repo, nil, clock.Now, zerolog.Nop())

	if _, err := svc.Block(context.Background(), u.ID, 30); err != nil {
		t.Fatalf("block: %v", err)
	}
	shorter, err := svc.Block(context.Background(), u.ID, 1)
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if want := clock.Now().AddDate(0, 0, 1); !shorter.BlockExpiresAt.Equal(want) {
		t.Fatalf("expected expiry replaced with %v, got %v", want, shorter.BlockExpiresAt)
	}
}

func TestAdminService_Block_InvalidDays(t *testing.T) {
	repo := newMemUserRepo()
	u := repo.seed(&domain.User{Username: "alice"})
	svc := NewAdminService(repo, nil, nil, zerolog.Nop())

	for _, days := range []int{0, -1, domain.MaxBlockDays + 1, math.MaxInt32 * 100, math.MaxInt64 / 2, math.MaxInt64} {
		if _, err := svc.Block(context.Background(), u.ID, days); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("days=%d: expected ErrInvalidInput, got %v", days, err)
		}
	}

	stored, _ := repo.FindByID(context.Background(), u.ID)
	if stored.BlockExpiresAt != nil {
		t.Fatalf("rejected block must not be persisted, got %v", stored.BlockExpiresAt)
	}
}

func TestAdminService_Block_MaxDays(t *testing.T) {
	clock := newFakeClock()
	repo := newMemUserRepo()
	u := repo.seed(&domain.User{Username: "alice"})
	svc := NewAdminService(repo, nil, clock.Now, zerolog.Nop())

	blocked, err := svc.Block(context.Background(), u.ID, domain.MaxBlockDays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := clock.Now().AddDate(0, 0, domain.MaxBlockDays); !blocked.BlockExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, blocked.BlockExpiresAt)
	}
	if !blocked.IsBlocked(clock.Now()) {
		t.Fatalf("expected user blocked for the longest allowed suspension")
	}
}

func TestAdminService_UnknownUser(t *testing.T) {
	svc := NewAdminService(newMemUserRepo(), nil, nil, zerolog.Nop())

	if _, err := svc.Block(context.Background(), "missing", 1); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.Unblock(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminService_Unblock(t *testing.T) {
	clock := newFakeClock()
	repo := newMemUserRepo()
	audit := &recordingAudit{}
	until := clock.Now().AddDate(0, 0, 5)
	u := repo.seed(&domain.User{Username: "alice", BlockExpiresAt: &until})
	svc := NewAdminService(repo, audit, clock.Now, zerolog.Nop())

	got, err := svc.Unblock(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.BlockExpiresAt != nil {
		t.Fatalf("expected block cleared, got %v", got.BlockExpiresAt)
	}
	stored, _ := repo.FindByID(context.Background(), u.ID)
	if stored.IsBlocked(clock.Now()) {
		t.Fatalf("unblock not persisted")
	}
	if acts := audit.actions(); len(acts) != 1 || acts[0] != domain.AuditUserUnblocked {
		t.Fatalf("unexpected audit trail %v", acts)
	}
}
