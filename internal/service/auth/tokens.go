package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evrecharge/evrecharge-api/internal/domain"
	"github.com/evrecharge/evrecharge-api/internal/ports"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents the custom JWT claims used by the application.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
	Type string `json:"type"`
}

// tokenIssuer signs, parses and revokes HS256 tokens. Revoked token IDs live
// in the cache until the token would have expired anyway.
type tokenIssuer struct {
	secret          []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	cache           ports.Cache
	log             *zap.Logger
	now             func() time.Time
}

func newTokenIssuer(secret string, accessDuration, refreshDuration time.Duration, cache ports.Cache, log *zap.Logger) *tokenIssuer {
	return &tokenIssuer{
		secret:          []byte(secret),
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		cache:           cache,
		log:             log,
		now:             time.Now,
	}
}

func (t *tokenIssuer) issue(user *domain.User, kind string) (string, error) {
	ttl := t.accessDuration
	if kind == tokenTypeRefresh {
		ttl = t.refreshDuration
	}

	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Type: kind,
	}
	if kind == tokenTypeAccess {
		claims.Role = string(user.Role)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// parse validates signature, expiry and token type
func (t *tokenIssuer) parse(tokenString, kind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		t.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthorized)
	}
	if claims.Type != kind {
		return nil, fmt.Errorf("%w: expected %s token", domain.ErrUnauthorized, kind)
	}
	return claims, nil
}

func revokedKey(id string) string {
	return "revoked_token:" + id
}

// revoke deny-lists the token ID for the rest of its lifetime
func (t *tokenIssuer) revoke(ctx context.Context, claims *Claims) error {
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(t.now())
	}
	if ttl <= 0 {
		return nil
	}

	if err := t.cache.Set(ctx, revokedKey(claims.ID), "revoked", ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	t.log.Info("token revoked", zap.String("jti", claims.ID), zap.String("user_id", claims.Subject))
	return nil
}

// revoked fails closed when the cache is unreachable
func (t *tokenIssuer) revoked(ctx context.Context, claims *Claims) (bool, error) {
	val, err := t.cache.Get(ctx, revokedKey(claims.ID))
	if errors.Is(err, ports.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return true, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return val == "revoked", nil
}
