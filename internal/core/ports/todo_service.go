package ports

import (
	"context"

	"github.com/aircha/todo-web/internal/core/domain"
)

// TodoService exposes owner-scoped todo use cases. ownerID always comes from
// an authorized session.
type TodoService interface {
	Create(ctx context.Context, ownerID int64, title string, description *string) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	GetByOwner(ctx context.Context, ownerID, id int64) (*domain.Todo, error)
	UpdateByOwner(ctx context.Context, ownerID, id int64, patch domain.TodoPatch) (*domain.Todo, error)
	ToggleByOwner(ctx context.Context, ownerID, id int64) error
	DeleteByOwner(ctx context.Context, ownerID, id int64) error
}
