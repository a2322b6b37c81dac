package handler

import "github.com/aircha/todo-web/internal/core/domain"

func toTodoResponse(t *domain.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsDone:      t.IsDone,
	}
}

func toTodoResponses(todos []domain.Todo) []todoResponse {
	out := make([]todoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, toTodoResponse(&todos[i]))
	}
	return out
}
