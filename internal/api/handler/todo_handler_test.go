package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aircha/todo-web/internal/core/domain"
)

var alice = &domain.SessionUser{ID: 1, Nickname: "alice"}

func TestTodoHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubTodoService{
		createFn: func(_ context.Context, ownerID int64, title string, description *string) (*domain.Todo, error) {
			if ownerID != alice.ID || title != "buy milk" || description != nil {
				t.Fatalf("unexpected args: %d %q %v", ownerID, title, description)
			}
			return &domain.Todo{ID: 10, OwnerID: ownerID, Title: title}, nil
		},
	}
	h := NewTodoHandler(stub)

	c, rec := authedContext(e, jsonRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title":"buy milk"}`)), alice, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != float64(10) || resp["title"] != "buy milk" || resp["isDone"] != false {
		t.Fatalf("unexpected response: %v", resp)
	}
	if v, ok := resp["description"]; !ok || v != nil {
		t.Fatalf("description must be present and null, got %v", resp)
	}
	if _, ok := resp["ownerId"]; ok {
		t.Fatalf("owner must not be exposed")
	}
}

func TestTodoHandler_Create_BlankTitle(t *testing.T) {
	e := newTestEcho()
	h := NewTodoHandler(&stubTodoService{})

	c, _ := authedContext(e, jsonRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title":"   "}`)), alice, "")
	err := h.Create(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Fields["title"] != "Title is required" {
		t.Fatalf("unexpected fields: %v", ve.Fields)
	}
}

func TestTodoHandler_Create_RequiresSession(t *testing.T) {
	e := newTestEcho()
	h := NewTodoHandler(&stubTodoService{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/todos", strings.NewReader(`{"title":"x"}`)), httptest.NewRecorder())
	if err := h.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestTodoHandler_List(t *testing.T) {
	e := newTestEcho()
	stub := &stubTodoService{
		listFn: func(_ context.Context, ownerID int64) ([]domain.Todo, error) {
			return []domain.Todo{}, nil
		},
	}
	h := NewTodoHandler(stub)

	c, rec := authedContext(e, httptest.NewRequest(http.MethodGet, "/api/todos", nil), alice, "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestTodoHandler_Get_NotFoundAndBadID(t *testing.T) {
	e := newTestEcho()
	stub := &stubTodoService{
		getFn: func(context.Context, int64, int64) (*domain.Todo, error) {
			return nil, domain.ErrTodoNotFound
		},
	}
	h := NewTodoHandler(stub)

	for _, id := range []string{"99", "abc", "-1"} {
		c, _ := authedContext(e, httptest.NewRequest(http.MethodGet, "/api/todos/"+id, nil), alice, id)
		if err := h.Get(c); !errors.Is(err, domain.ErrTodoNotFound) {
			t.Fatalf("id %s: expected ErrTodoNotFound, got %v", id, err)
		}
	}
}

func TestTodoHandler_Update_TriStatePatch(t *testing.T) {
	e := newTestEcho()
	var got domain.TodoPatch
	stub := &stubTodoService{
		updateFn: func(_ context.Context, ownerID, id int64, patch domain.TodoPatch) (*domain.Todo, error) {
			if ownerID != alice.ID || id != 5 {
				t.Fatalf("unexpected ids %d %d", ownerID, id)
			}
			got = patch
			return &domain.Todo{ID: 5, Title: "t", IsDone: true}, nil
		},
	}
	h := NewTodoHandler(stub)

	c, rec := authedContext(e, jsonRequest(http.MethodPut, "/api/todos/5", strings.NewReader(`{"description":null,"isDone":true}`)), alice, "5")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Title.Present {
		t.Fatalf("title must be absent")
	}
	if !got.Description.Present || !got.Description.Null {
		t.Fatalf("description must be an explicit null: %#v", got.Description)
	}
	if done, ok := got.IsDone.Get(); !ok || !done {
		t.Fatalf("isDone must be true: %#v", got.IsDone)
	}
}

func TestTodoHandler_Update_MalformedBody(t *testing.T) {
	e := newTestEcho()
	h := NewTodoHandler(&stubTodoService{})

	c, _ := authedContext(e, jsonRequest(http.MethodPut, "/api/todos/5", strings.NewReader(`{"isDone":"yes"}`)), alice, "5")
	if err := h.Update(c); err == nil {
		t.Fatalf("expected bind error")
	}
}

func TestTodoHandler_Toggle(t *testing.T) {
	e := newTestEcho()
	toggled := false
	stub := &stubTodoService{
		toggleFn: func(context.Context, int64, int64) error {
			toggled = true
			return nil
		},
		getFn: func(_ context.Context, _ int64, id int64) (*domain.Todo, error) {
			return &domain.Todo{ID: id, Title: "t", IsDone: true, Description: strPtr("d")}, nil
		},
	}
	h := NewTodoHandler(stub)

	c, rec := authedContext(e, httptest.NewRequest(http.MethodPost, "/api/todos/3/toggle", nil), alice, "3")
	if err := h.Toggle(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !toggled {
		t.Fatalf("toggle not called")
	}
	if !strings.Contains(rec.Body.String(), `"isDone":true`) || !strings.Contains(rec.Body.String(), `"description":"d"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	e := newTestEcho()
	stub := &stubTodoService{
		deleteFn: func(_ context.Context, ownerID, id int64) error {
			if id == 4 {
				return nil
			}
			return domain.ErrTodoNotFound
		},
	}
	h := NewTodoHandler(stub)

	c, rec := authedContext(e, httptest.NewRequest(http.MethodDelete, "/api/todos/4", nil), alice, "4")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = authedContext(e, httptest.NewRequest(http.MethodDelete, "/api/todos/5", nil), alice, "5")
	if err := h.Delete(c); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound, got %v", err)
	}
}
