package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
	"github.com/ratemyrecipe/recipe-auth/internal/core/ports"
	"github.com/ratemyrecipe/recipe-auth/internal/pkg/metrics"
)

// LoginThrottle abstracts the failed-login counter (Redis).
type LoginThrottle interface {
	Exceeded(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuthOptions carries the optional collaborators of AuthService.
type AuthOptions struct {
	// AllowAdminSignup honours "admin" role hints at signup. When false
	// those hints fall back to the default role.
	AllowAdminSignup bool
	Throttle         LoginThrottle
	Audit            ports.AuditPublisher
	Now              func() time.Time
}

// AuthService implements signup and login.
type AuthService struct {
	repo       ports.UserRepository
	hasher     ports.PasswordHasher
	verifier   *CredentialVerifier
	blocks     *BlockEnforcer
	codec      ports.TokenCodec
	throttle   LoginThrottle
	audit      ports.AuditPublisher
	allowAdmin bool
	now        func() time.Time
	log        zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, codec ports.TokenCodec, log zerolog.Logger, opts AuthOptions) *AuthService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	throttle := opts.Throttle
	if throttle == nil {
		throttle = noThrottle{}
	}
	audit := opts.Audit
	if audit == nil {
		audit = discardAudit{}
	}
	return &AuthService{
		repo:       repo,
		hasher:     hasher,
		verifier:   NewCredentialVerifier(repo, hasher),
		blocks:     NewBlockEnforcer(now),
		codec:      codec,
		throttle:   throttle,
		audit:      audit,
		allowAdmin: opts.AllowAdminSignup,
		now:        now,
		log:        log,
	}
}

// Signup registers a new account and logs it in.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	username := normalizeUsername(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || in.Password == "" || email == "" {
		metrics.SignupsTotal.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: username, password and email are required", domain.ErrInvalidInput)
	}

	user, err := s.register(ctx, username, in.Password, email, domain.RolesFromHints(in.RoleHints, s.allowAdmin))
	if err != nil {
		metrics.SignupsTotal.WithLabelValues(signupResult(err)).Inc()
		return nil, err
	}

	token, err := s.codec.Issue(user.Username)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("signup: issue token: %w", err)
	}

	metrics.SignupsTotal.WithLabelValues("success").Inc()
	s.publish(domain.AuditSignup, user.Username, "", "")
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user signed up")

	return &ports.AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	username = normalizeUsername(username)

	exceeded, err := s.throttle.Exceeded(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("throttle check failed, continuing")
	} else if exceeded {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		s.publish(domain.AuditLoginThrottled, username, "", "")
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			if ferr := s.throttle.RecordFailure(ctx, username); ferr != nil {
				s.log.Warn().Err(ferr).Str("username", username).Msg("failed to record login failure")
			}
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			s.publish(domain.AuditLoginFailed, username, "", "")
			return nil, err
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.blocks.Check(user); err != nil {
		metrics.LoginsTotal.WithLabelValues("blocked").Inc()
		s.publish(domain.AuditLoginFailed, username, "", "account blocked")
		return nil, err
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login failures")
	}

	token, err := s.codec.Issue(user.Username)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.publish(domain.AuditLoginSucceeded, user.Username, "", "")

	return &ports.AuthResult{Token: token, User: user}, nil
}

// EnsureAdmin creates an admin account with the given credentials unless the
// username is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, email string) error {
	username = normalizeUsername(username)
	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if !domain.HasAnyRole(existing.Roles, domain.RoleAdmin) {
			s.log.Warn().Str("username", username).Msg("bootstrap admin username belongs to a non-admin account")
		}
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("ensure admin: %w", err)
	}

	user, err := s.register(ctx, username, password, email, []domain.Role{domain.RoleAdmin, domain.RoleUser})
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("bootstrap admin created")
	return nil
}

func (s *AuthService) register(ctx context.Context, username, password, email string, roles []domain.Role) (*domain.User, error) {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	taken, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if taken {
		return nil, domain.ErrEmailInUse
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *AuthService) publish(action domain.AuditAction, username, actorID, detail string) {
	s.audit.Publish(domain.AuditEvent{
		Action:    action,
		Username:  username,
		ActorID:   actorID,
		Detail:    detail,
		Timestamp: s.now().UTC(),
	})
}

// normalizeUsername is applied wherever a username enters the service so that
// stored names, lookups and throttle keys agree.
func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func signupResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "user_exists"
	case errors.Is(err, domain.ErrEmailInUse):
		return "email_in_use"
	default:
		return "error"
	}
}

type noThrottle struct{}

func (noThrottle) Exceeded(context.Context, string) (bool, error) { return false, nil }
func (noThrottle) RecordFailure(context.Context, string) error    { return nil }
func (noThrottle) Reset(context.Context, string) error            { return nil }

type discardAudit struct{}

func (discardAudit) Publish(domain.AuditEvent) {}
