package ports

import (
	"context"

	"github.com/aircha/todo-web/internal/core/domain"
)

// TodoRepository persists todos. Every method other than Create filters by
// owner and id in the same query and reports domain.ErrTodoNotFound when no
// row matches both.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	// ListByOwner returns the owner's todos ordered by id.
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	FindByOwner(ctx context.Context, ownerID, id int64) (*domain.Todo, error)
	// UpdateByOwner writes title, description and completion of todo.
	UpdateByOwner(ctx context.Context, todo *domain.Todo) error
	ToggleByOwner(ctx context.Context, ownerID, id int64) error
	DeleteByOwner(ctx context.Context, ownerID, id int64) error
}
