package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aircha/todo-web/internal/api/metrics"
	"github.com/aircha/todo-web/internal/api/view"
	"github.com/aircha/todo-web/internal/core/domain"
	"github.com/aircha/todo-web/internal/core/ports"
)

const todosPath = "/todos"

// TodoPageHandler serves the HTML pages for the signed-in user's todos.
type TodoPageHandler struct {
	todoService ports.TodoService
}

func NewTodoPageHandler(todoService ports.TodoService) *TodoPageHandler {
	return &TodoPageHandler{todoService: todoService}
}

type createTodoForm struct {
	Title       string `form:"title" validate:"required,notblank,max=255"`
	Description string `form:"description"`
}

type updateTodoForm struct {
	ID          int64
	Title       string
	Description string
	IsDone      bool
}

func (h *TodoPageHandler) List(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	todos, err := h.todoService.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.List, view.Page{Title: "Todo list", User: user, Todos: todos})
}

func (h *TodoPageHandler) CreatePage(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, view.Create, view.Page{Title: "New todo", User: user, Form: createTodoForm{}})
}

func (h *TodoPageHandler) Create(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}

	var form createTodoForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	page := view.Page{Title: "New todo", User: user, Form: form}
	if err := c.Validate(&form); err != nil {
		return renderFormError(c, view.Create, page, err)
	}

	if _, err := h.todoService.Create(c.Request().Context(), user.ID, form.Title, blankAsNil(form.Description)); err != nil {
		return renderFormError(c, view.Create, page, err)
	}

	metrics.TodoOperationsTotal.WithLabelValues("create", "page").Inc()
	return c.Redirect(http.StatusFound, todosPath)
}

func (h *TodoPageHandler) UpdatePage(c echo.Context) error {
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

	form := updateTodoForm{ID: todo.ID, Title: todo.Title, IsDone: todo.IsDone}
	if todo.Description != nil {
		form.Description = *todo.Description
	}
	return c.Render(http.StatusOK, view.Update, view.Page{Title: "Edit todo", User: user, Form: form})
}

// Update applies the submitted edit form. Only fields present in the form are
// changed; an empty description clears it.
func (h *TodoPageHandler) Update(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}

	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	patch := patchFromForm(values)

	_, err = h.todoService.UpdateByOwner(c.Request().Context(), user.ID, id, patch)
	if err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		form := updateTodoForm{ID: id, Title: values.Get("title"), Description: values.Get("description")}
		if done, ok := patch.IsDone.Get(); ok {
			form.IsDone = done
		}
		return c.Render(http.StatusOK, view.Update, view.Page{Title: "Edit todo", User: user, Form: form, Errors: ve.Fields})
	}

	metrics.TodoOperationsTotal.WithLabelValues("update", "page").Inc()
	return c.Redirect(http.StatusFound, todosPath)
}

func (h *TodoPageHandler) Toggle(c echo.Context) error {
	user, err := sessionUser(c)
	if err != nil {
		return err
	}
	id, err := todoID(c)
	if err != nil {
		return err
	}
	if err := h.todoService.ToggleByOwner(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	metrics.TodoOperationsTotal.WithLabelValues("toggle", "page").Inc()
	return c.Redirect(http.StatusFound, todosPath)
}

func (h *TodoPageHandler) Delete(c echo.Context) error {
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
	metrics.TodoOperationsTotal.WithLabelValues("delete", "page").Inc()
	return c.Redirect(http.StatusFound, todosPath)
}

// patchFromForm turns the edit form into a TodoPatch. The completion field is
// sent as a hidden "false" followed by the checkbox, so the last value wins.
func patchFromForm(values url.Values) domain.TodoPatch {
	var patch domain.TodoPatch
	if v, ok := values["title"]; ok && len(v) > 0 {
		patch.Title = domain.Some(v[0])
	}
	if v, ok := values["description"]; ok && len(v) > 0 {
		if d := blankAsNil(v[0]); d != nil {
			patch.Description = domain.Some(*d)
		} else {
			patch.Description = domain.Null[string]()
		}
	}
	if v, ok := values["isDone"]; ok && len(v) > 0 {
		patch.IsDone = domain.Some(checkboxValue(v[len(v)-1]))
	}
	return patch
}

func checkboxValue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

// blankAsNil maps an empty form field to "no value".
func blankAsNil(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
