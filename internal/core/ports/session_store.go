package ports

import (
	"context"
	"time"

	"github.com/aircha/todo-web/internal/core/domain"
)

// SessionStore binds opaque session ids to identity projections for a limited
// time. Get returns domain.ErrSessionNotFound for unknown or expired ids.
type SessionStore interface {
	Save(ctx context.Context, sid string, user domain.SessionUser, ttl time.Duration) error
	Get(ctx context.Context, sid string) (*domain.SessionUser, error)
	Delete(ctx context.Context, sid string) error
}
