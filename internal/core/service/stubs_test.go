package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
)

var errStore = errors.New("store unavailable")

// memUserRepo is an in-memory ports.UserRepository.
type memUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
	err    error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	cp.Roles = append([]domain.Role(nil), u.Roles...)
	if u.BlockExpiresAt != nil {
		t := *u.BlockExpiresAt
		cp.BlockExpiresAt = &t
	}
	return &cp
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	cp := cloneUser(user)
	cp.ID = "u" + strconv.Itoa(r.nextID)
	r.users[cp.ID] = cp
	return cloneUser(cp), nil
}

func (r *memUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.users[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

// seed stores u directly, bypassing registration.
func (r *memUserRepo) seed(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := cloneUser(u)
	if cp.ID == "" {
		cp.ID = "u" + strconv.Itoa(r.nextID)
	}
	r.users[cp.ID] = cp
	return cloneUser(cp)
}

// plainHasher stores "hashed:" + plaintext so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "hashed:"+p }

// stubCodec issues "tok:<username>" and validates it back.
type stubCodec struct {
	issueErr    error
	validateErr error
}

func (c *stubCodec) Issue(username string) (string, error) {
	if c.issueErr != nil {
		return "", c.issueErr
	}
	return "tok:" + username, nil
}

func (c *stubCodec) Validate(raw string) (string, error) {
	if c.validateErr != nil {
		return "", c.validateErr
	}
	username, ok := strings.CutPrefix(raw, "tok:")
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	return username, nil
}

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Publish(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

// countingThrottle is an in-memory LoginThrottle.
type countingThrottle struct {
	max      int
	failures map[string]int
	err      error
}

func newCountingThrottle(max int) *countingThrottle {
	return &countingThrottle{max: max, failures: map[string]int{}}
}

func (t *countingThrottle) Exceeded(_ context.Context, username string) (bool, error) {
	if t.err != nil {
		return false, t.err
	}
	return t.failures[username] >= t.max, nil
}

func (t *countingThrottle) RecordFailure(_ context.Context, username string) error {
	t.failures[username]++
	return nil
}

func (t *countingThrottle) Reset(_ context.Context, username string) error {
	delete(t.failures, username)
	return nil
}
