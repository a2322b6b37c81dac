package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aircha/todo-web/internal/api/middleware"
	"github.com/aircha/todo-web/internal/api/view"
	"github.com/aircha/todo-web/internal/core/domain"
)

var testCookie = middleware.SessionCookie{Name: "todo_session", TTL: 30 * time.Minute}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.Renderer = view.MustNew()
	return e
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func jsonRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// authedContext returns a context as RequireSession leaves it for user.
func authedContext(e *echo.Echo, req *http.Request, user *domain.SessionUser, id string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.SessionUserKey, user)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	return c, rec
}

type stubAuthService struct {
	registerFn     func(ctx context.Context, email, password, nickname string) (*domain.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password, nickname string) (*domain.User, error) {
	return s.registerFn(ctx, email, password, nickname)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, email, password)
}

type stubGate struct {
	issueFn  func(ctx context.Context, user *domain.User) (string, error)
	revokeFn func(ctx context.Context, token string) error
}

func (s *stubGate) Issue(ctx context.Context, user *domain.User) (string, error) {
	return s.issueFn(ctx, user)
}

func (s *stubGate) Authorize(context.Context, string) (*domain.SessionUser, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubGate) Revoke(ctx context.Context, token string) error {
	if s.revokeFn == nil {
		return nil
	}
	return s.revokeFn(ctx, token)
}

type stubTodoService struct {
	createFn func(ctx context.Context, ownerID int64, title string, description *string) (*domain.Todo, error)
	listFn   func(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	getFn    func(ctx context.Context, ownerID, id int64) (*domain.Todo, error)
	updateFn func(ctx context.Context, ownerID, id int64, patch domain.TodoPatch) (*domain.Todo, error)
	toggleFn func(ctx context.Context, ownerID, id int64) error
	deleteFn func(ctx context.Context, ownerID, id int64) error
}

func (s *stubTodoService) Create(ctx context.Context, ownerID int64, title string, description *string) (*domain.Todo, error) {
	return s.createFn(ctx, ownerID, title, description)
}

func (s *stubTodoService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return s.listFn(ctx, ownerID)
}

func (s *stubTodoService) GetByOwner(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	return s.getFn(ctx, ownerID, id)
}

func (s *stubTodoService) UpdateByOwner(ctx context.Context, ownerID, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
	return s.updateFn(ctx, ownerID, id, patch)
}

func (s *stubTodoService) ToggleByOwner(ctx context.Context, ownerID, id int64) error {
	return s.toggleFn(ctx, ownerID, id)
}

func (s *stubTodoService) DeleteByOwner(ctx context.Context, ownerID, id int64) error {
	return s.deleteFn(ctx, ownerID, id)
}

func strPtr(s string) *string { return &s }
