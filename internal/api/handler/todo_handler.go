package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aircha/todo-web/internal/api/metrics"
	"github.com/aircha/todo-web/internal/core/ports"
)

// TodoHandler serves the JSON API for the signed-in user's todos.
type TodoHandler struct {
	todoService ports.TodoService
}

func NewTodoHandler(todoService ports.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// Create adds a todo for the session owner.
//
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      createTodoRequest  true  "Todo to create"
// @Success      201   {object}  todoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	todo, err := h.todoService.Create(c.Request().Context(), user.ID, req.Title, req.Description)
	if err != nil {
		return err
	}

	metrics.TodoOperationsTotal.WithLabelValues("create", "api").Inc()
	return c.JSON(http.StatusCreated, toTodoResponse(todo))
}

// List returns the session owner's todos.
//
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Success      200  {array}   todoResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	todos, err := h.todoService.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponses(todos))
}

// Get returns one of the session owner's todos.
//
// @Summary      Get a todo
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  todoResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}
	todo, err := h.todoService.GetByOwner(c.Request().Context(), user.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Update partially updates one of the session owner's todos.
//
// @Summary      Update a todo
// @Description  Omitted fields are left unchanged. A null description clears it.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Todo ID"
// @Param        body  body      updateTodoRequest  true  "Fields to change"
// @Success      200   {object}  todoResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}

	// BindBody skips path params; the Optional fields need the raw document.
	var req updateTodoRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return err
	}

	todo, err := h.todoService.UpdateByOwner(c.Request().Context(), user.ID, id, req.patch())
	if err != nil {
		return err
	}

	metrics.TodoOperationsTotal.WithLabelValues("update", "api").Inc()
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Toggle flips completion of one of the session owner's todos.
//
// @Summary      Toggle a todo
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  todoResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id}/toggle [post]
func (h *TodoHandler) Toggle(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := h.todoService.ToggleByOwner(ctx, user.ID, id); err != nil {
		return err
	}
	todo, err := h.todoService.GetByOwner(ctx, user.ID, id)
	if err != nil {
		return err
	}

	metrics.TodoOperationsTotal.WithLabelValues("toggle", "api").Inc()
	return c.JSON(http.StatusOK, toTodoResponse(todo))
}

// Delete removes one of the session owner's todos.
//
// @Summary      Delete a todo
// @Tags         todos
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}
	if err := h.todoService.DeleteByOwner(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	metrics.TodoOperationsTotal.WithLabelValues("delete", "api").Inc()
	return c.NoContent(http.StatusNoContent)
}
