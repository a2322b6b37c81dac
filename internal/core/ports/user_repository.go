package ports

import (
	"context"

	"github.com/aircha/todo-web/internal/core/domain"
)

// UserRepository persists identities. Create must fail with
// domain.ErrDuplicateEmail when the email is already taken; lookups return
// domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
