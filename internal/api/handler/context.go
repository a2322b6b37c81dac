package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aircha/todo-web/internal/api/middleware"
	"github.com/aircha/todo-web/internal/core/domain"
)

// sessionUser returns the identity injected by middleware.RequireSession.
// Routes using it are always mounted behind that middleware, so a missing
// value means the request is not authenticated.
func sessionUser(c echo.Context) (*domain.SessionUser, error) {
	user, ok := c.Get(middleware.SessionUserKey).(*domain.SessionUser)
	if !ok || user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// todoID parses the :id path parameter. Ids that cannot exist are reported
// exactly like ids that belong to someone else.
func todoID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrTodoNotFound
	}
	return id, nil
}
