package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aircha/todo-web/internal/core/domain"
	"github.com/aircha/todo-web/internal/core/ports"
)

const defaultSessionTTL = 30 * time.Minute

// sessionClaims is the cookie payload: only the opaque session id, never the identity.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionGate binds signed session tokens to identity projections kept in a
// server-side SessionStore. A token is honoured only while both its signature
// is valid and its server-side record exists.
type SessionGate struct {
	store  ports.SessionStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
	logger zerolog.Logger
}

func NewSessionGate(store ports.SessionStore, secret string, ttl time.Duration, logger zerolog.Logger) *SessionGate {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionGate{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger,
	}
}

// TTL is the lifetime given to new sessions.
func (g *SessionGate) TTL() time.Duration {
	return g.ttl
}

// Issue starts a session for user and returns the token to hand to the browser.
func (g *SessionGate) Issue(ctx context.Context, user *domain.User) (string, error) {
	sid := g.newID()
	if err := g.store.Save(ctx, sid, domain.SessionUser{ID: user.ID, Nickname: user.Nickname}, g.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	now := g.now()
	claims := sessionClaims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		_ = g.store.Delete(ctx, sid)
		return "", fmt.Errorf("sign session: %w", err)
	}

	g.logger.Debug().Int64("user_id", user.ID).Msg("session issued")
	return token, nil
}

// Authorize resolves token to the identity it was issued for. Every rejection
// is reported as domain.ErrUnauthenticated; store failures are returned as-is.
func (g *SessionGate) Authorize(ctx context.Context, token string) (*domain.SessionUser, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := g.parse(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := g.store.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return user, nil
}

// Revoke ends the session behind token. Unusable tokens are ignored.
func (g *SessionGate) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := g.parse(token)
	if err != nil {
		return nil
	}
	if err := g.store.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (g *SessionGate) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(g.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.SessionID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
