package ports

import (
	"context"

	"github.com/aircha/todo-web/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, nickname string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

// SessionGate issues, authorizes and revokes browser sessions.
type SessionGate interface {
	Issue(ctx context.Context, user *domain.User) (string, error)
	Authorize(ctx context.Context, token string) (*domain.SessionUser, error)
	Revoke(ctx context.Context, token string) error
}
