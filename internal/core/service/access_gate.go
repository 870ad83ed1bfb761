package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ratemyrecipe/recipe-auth/internal/core/domain"
	"github.com/ratemyrecipe/recipe-auth/internal/core/ports"
	"github.com/ratemyrecipe/recipe-auth/internal/pkg/metrics"
)

type accessGate struct {
	codec    ports.TokenCodec
	resolver ports.IdentityResolver
	blocks   *BlockEnforcer
	log      zerolog.Logger
}

// NewAccessGate wires the token codec, identity resolver and block enforcer
// into the per-request authentication check.
func NewAccessGate(codec ports.TokenCodec, resolver ports.IdentityResolver, blocks *BlockEnforcer, log zerolog.Logger) ports.AccessGate {
	return &accessGate{
		codec:    codec,
		resolver: resolver,
		blocks:   blocks,
		log:      log,
	}
}

// Authenticate returns domain.ErrUnauthenticated for a missing or malformed
// header, an invalid or expired token, or a subject that no longer resolves.
// Those causes are only distinguished in debug logs. A resolved but
// suspended user yields domain.ErrAccountBlocked.
func (g *accessGate) Authenticate(ctx context.Context, authorization string) (*domain.AuthContext, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return nil, g.reject("missing_token", nil, "")
	}

	username, err := g.codec.Validate(token)
	if err != nil {
		reason := "invalid_token"
		if errors.Is(err, domain.ErrTokenExpired) {
			reason = "expired_token"
		}
		return nil, g.reject(reason, err, "")
	}

	user, err := g.resolver.Resolve(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, g.reject("unknown_subject", err, username)
		}
		g.log.Error().Err(err).Str("username", username).Msg("identity lookup failed")
		metrics.AuthRejectionsTotal.WithLabelValues("lookup_failed").Inc()
		return nil, domain.ErrUnauthenticated
	}

	if err := g.blocks.Check(user); err != nil {
		g.log.Info().Str("username", username).Time("blocked_until", *user.BlockExpiresAt).Msg("blocked user rejected")
		metrics.AuthRejectionsTotal.WithLabelValues("account_blocked").Inc()
		return nil, err
	}

	return domain.NewAuthContext(user), nil
}

func (g *accessGate) reject(reason string, cause error, username string) error {
	g.log.Debug().Err(cause).Str("reason", reason).Str("username", username).Msg("request not authenticated")
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	return domain.ErrUnauthenticated
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
