package gormdb

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/aircha/todo-web/internal/core/domain"
)

const ownedClause = "user_id = ? AND id = ?"

type TodoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	rec := todoRecord{
		UserID:      todo.OwnerID,
		Title:       todo.Title,
		Description: todo.Description,
		IsDone:      todo.IsDone,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	created := rec.toDomain()
	return &created, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	var recs []todoRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", ownerID).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	todos := make([]domain.Todo, 0, len(recs))
	for _, rec := range recs {
		todos = append(todos, rec.toDomain())
	}
	return todos, nil
}

func (r *TodoRepository) FindByOwner(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	var rec todoRecord
	if err := r.db.WithContext(ctx).Where(ownedClause, ownerID, id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	todo := rec.toDomain()
	return &todo, nil
}

func (r *TodoRepository) UpdateByOwner(ctx context.Context, todo *domain.Todo) error {
	res := r.db.WithContext(ctx).Model(&todoRecord{}).
		Where(ownedClause, todo.OwnerID, todo.ID).
		Updates(map[string]interface{}{
			"title":       todo.Title,
			"description": todo.Description,
			"is_done":     todo.IsDone,
			"updated_at":  todo.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// MySQL reports changed rows, not matched ones; an unchanged row is not a miss.
		return r.ensureOwned(ctx, todo.OwnerID, todo.ID)
	}
	return nil
}

func (r *TodoRepository) ToggleByOwner(ctx context.Context, ownerID, id int64) error {
	res := r.db.WithContext(ctx).Model(&todoRecord{}).
		Where(ownedClause, ownerID, id).
		Update("is_done", gorm.Expr("NOT is_done"))
	if res.Error != nil {
		return fmt.Errorf("toggle todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) DeleteByOwner(ctx context.Context, ownerID, id int64) error {
	res := r.db.WithContext(ctx).Where(ownedClause, ownerID, id).Delete(&todoRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete todo: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) ensureOwned(ctx context.Context, ownerID, id int64) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&todoRecord{}).Where(ownedClause, ownerID, id).Count(&n).Error; err != nil {
		return fmt.Errorf("count todo: %w", err)
	}
	if n == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}
