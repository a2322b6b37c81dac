package handler

import "github.com/aircha/todo-web/internal/core/domain"

// createTodoRequest is the body of POST /api/todos.
type createTodoRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=255" example:"Buy milk"`
	Description *string `json:"description,omitempty" example:"2 litres"`
}

// updateTodoRequest is the body of PUT /api/todos/{id}. Omitted fields are left
// unchanged; "description": null clears the description.
type updateTodoRequest struct {
	Title       domain.Optional[string] `json:"title" swaggertype:"string" example:"Buy oat milk"`
	Description domain.Optional[string] `json:"description" swaggertype:"string" example:"1 litre"`
	IsDone      domain.Optional[bool]   `json:"isDone" swaggertype:"boolean" example:"true"`
}

func (r updateTodoRequest) patch() domain.TodoPatch {
	return domain.TodoPatch{Title: r.Title, Description: r.Description, IsDone: r.IsDone}
}

// todoResponse is the public representation of a todo. The owner is never exposed.
type todoResponse struct {
	ID          int64   `json:"id" example:"1"`
	Title       string  `json:"title" example:"Buy milk"`
	Description *string `json:"description" example:"2 litres"`
	IsDone      bool    `json:"isDone" example:"false"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
