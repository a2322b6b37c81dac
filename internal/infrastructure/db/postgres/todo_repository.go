package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aircha/todo-web/internal/core/domain"
)

const todoColumns = `id, user_id, title, description, is_done, created_at, updated_at`

type TodoRepository struct {
	db DBTX
}

func NewTodoRepository(db DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (domain.Todo, error) {
	var (
		t    domain.Todo
		desc sql.NullString
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &desc, &t.IsDone, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return domain.Todo{}, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	return t, nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	query := `INSERT INTO todos (user_id, title, description, is_done, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	created := *todo
	err := r.db.QueryRowContext(ctx, query,
		todo.OwnerID, todo.Title, nullString(todo.Description), todo.IsDone, todo.CreatedAt, todo.UpdatedAt,
	).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return &created, nil
}

func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []domain.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) FindByOwner(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1 AND user_id = $2`

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return &t, nil
}

func (r *TodoRepository) UpdateByOwner(ctx context.Context, todo *domain.Todo) error {
	query := `UPDATE todos SET title = $1, description = $2, is_done = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6`

	res, err := r.db.ExecContext(ctx, query,
		todo.Title, nullString(todo.Description), todo.IsDone, todo.UpdatedAt, todo.ID, todo.OwnerID)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return expectOneRow(res)
}

func (r *TodoRepository) ToggleByOwner(ctx context.Context, ownerID, id int64) error {
	query := `UPDATE todos SET is_done = NOT is_done, updated_at = now() WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("toggle todo: %w", err)
	}
	return expectOneRow(res)
}

func (r *TodoRepository) DeleteByOwner(ctx context.Context, ownerID, id int64) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
