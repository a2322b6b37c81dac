package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircha/todo-web/internal/core/domain"
	"github.com/aircha/todo-web/internal/core/ports"
)

// TodoService implements owner-scoped todo use cases. Lookups never fall back
// to an unscoped query, so a foreign id is indistinguishable from a missing one.
type TodoService struct {
	repo   ports.TodoRepository
	users  ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewTodoService(repo ports.TodoRepository, users ports.UserRepository, logger zerolog.Logger) *TodoService {
	return &TodoService{repo: repo, users: users, logger: logger, now: time.Now}
}

func (s *TodoService) Create(ctx context.Context, ownerID int64, title string, description *string) (*domain.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.NewValidationError("title", "Title is required")
	}

	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Int64("owner_id", ownerID).Msg("session references unknown user")
			return nil, domain.ErrOwnerNotFound
		}
		return nil, fmt.Errorf("find owner: %w", err)
	}

	now := s.now().UTC()
	todo, err := s.repo.Create(ctx, &domain.Todo{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to create todo")
		return nil, err
	}

	s.logger.Info().Int64("todo_id", todo.ID).Int64("owner_id", ownerID).Msg("todo created")
	return todo, nil
}

func (s *TodoService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	todos, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

func (s *TodoService) GetByOwner(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	return s.repo.FindByOwner(ctx, ownerID, id)
}

// UpdateByOwner applies patch to the caller's todo and returns the result.
// An empty patch returns the stored todo without writing.
func (s *TodoService) UpdateByOwner(ctx context.Context, ownerID, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	todo, err := s.repo.FindByOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return todo, nil
	}

	if err := patch.Apply(todo); err != nil {
		return nil, err
	}
	todo.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateByOwner(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) ToggleByOwner(ctx context.Context, ownerID, id int64) error {
	return s.repo.ToggleByOwner(ctx, ownerID, id)
}

func (s *TodoService) DeleteByOwner(ctx context.Context, ownerID, id int64) error {
	if err := s.repo.DeleteByOwner(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info().Int64("todo_id", id).Int64("owner_id", ownerID).Msg("todo deleted")
	return nil
}
