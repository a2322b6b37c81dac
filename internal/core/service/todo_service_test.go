package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aircha/todo-web/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubTodoRepo struct {
	todos   map[int64]*domain.Todo
	nextID  int64
	updates int
}

func newStubTodoRepo() *stubTodoRepo {
	return &stubTodoRepo{todos: make(map[int64]*domain.Todo)}
}

func (r *stubTodoRepo) Create(_ context.Context, t *domain.Todo) (*domain.Todo, error) {
	r.nextID++
	clone := *t
	clone.ID = r.nextID
	r.todos[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubTodoRepo) ListByOwner(_ context.Context, ownerID int64) ([]domain.Todo, error) {
	var out []domain.Todo
	for _, t := range r.todos {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// lookup mirrors the real stores: id and owner are matched together.
func (r *stubTodoRepo) lookup(ownerID, id int64) (*domain.Todo, bool) {
	t, ok := r.todos[id]
	if !ok || t.OwnerID != ownerID {
		return nil, false
	}
	return t, true
}

func (r *stubTodoRepo) FindByOwner(_ context.Context, ownerID, id int64) (*domain.Todo, error) {
	t, ok := r.lookup(ownerID, id)
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTodoRepo) UpdateByOwner(_ context.Context, todo *domain.Todo) error {
	t, ok := r.lookup(todo.OwnerID, todo.ID)
	if !ok {
		return domain.ErrTodoNotFound
	}
	r.updates++
	t.Title = todo.Title
	t.Description = todo.Description
	t.IsDone = todo.IsDone
	t.UpdatedAt = todo.UpdatedAt
	return nil
}

func (r *stubTodoRepo) ToggleByOwner(_ context.Context, ownerID, id int64) error {
	t, ok := r.lookup(ownerID, id)
	if !ok {
		return domain.ErrTodoNotFound
	}
	t.IsDone = !t.IsDone
	return nil
}

func (r *stubTodoRepo) DeleteByOwner(_ context.Context, ownerID, id int64) error {
	if _, ok := r.lookup(ownerID, id); !ok {
		return domain.ErrTodoNotFound
	}
	delete(r.todos, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestTodoService(t *testing.T) (*TodoService, *stubTodoRepo, int64, int64) {
	t.Helper()
	users := newStubUserRepo()
	alice, _ := users.Create(context.Background(), &domain.User{Email: "alice@example.com", Nickname: "alice"})
	bob, _ := users.Create(context.Background(), &domain.User{Email: "bob@example.com", Nickname: "bob"})
	repo := newStubTodoRepo()
	return NewTodoService(repo, users, zerolog.Nop()), repo, alice.ID, bob.ID
}

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestTodoService_Create(t *testing.T) {
	svc, _, alice, _ := newTestTodoService(t)

	todo, err := svc.Create(context.Background(), alice, "buy milk", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if todo.ID == 0 || todo.OwnerID != alice || todo.Title != "buy milk" {
		t.Fatalf("unexpected todo: %+v", todo)
	}
	if todo.IsDone {
		t.Fatalf("new todo must not be done")
	}
	if todo.Description != nil {
		t.Fatalf("expected nil description, got %q", *todo.Description)
	}
}

func TestTodoService_Create_BlankTitle(t *testing.T) {
	svc, repo, alice, _ := newTestTodoService(t)

	if _, err := svc.Create(context.Background(), alice, "   ", nil); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(repo.todos) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestTodoService_Create_OwnerNotFound(t *testing.T) {
	svc, _, _, _ := newTestTodoService(t)

	if _, err := svc.Create(context.Background(), 999, "orphan", nil); !errors.Is(err, domain.ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestTodoService_ListByOwner_ScopedAndOrdered(t *testing.T) {
	svc, _, alice, bob := newTestTodoService(t)
	ctx := context.Background()

	_, _ = svc.Create(ctx, alice, "first", nil)
	_, _ = svc.Create(ctx, bob, "bob's", nil)
	_, _ = svc.Create(ctx, alice, "second", nil)

	list, err := svc.ListByOwner(ctx, alice)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(list) != 2 || list[0].Title != "first" || list[1].Title != "second" {
		t.Fatalf("unexpected list: %+v", list)
	}
	for _, todo := range list {
		if todo.OwnerID != alice {
			t.Fatalf("foreign todo leaked into list: %+v", todo)
		}
	}
}

func TestTodoService_ListByOwner_EmptyIsNotNil(t *testing.T) {
	svc, _, alice, _ := newTestTodoService(t)

	list, err := svc.ListByOwner(context.Background(), alice)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", list)
	}
}

func TestTodoService_ForeignIdMatchesMissingId(t *testing.T) {
	svc, _, alice, bob := newTestTodoService(t)
	ctx := context.Background()

	todo, _ := svc.Create(ctx, alice, "private", nil)

	_, foreignErr := svc.GetByOwner(ctx, bob, todo.ID)
	_, missingErr := svc.GetByOwner(ctx, bob, 12345)
	if !errors.Is(foreignErr, domain.ErrTodoNotFound) || !errors.Is(missingErr, domain.ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound for both, got %v / %v", foreignErr, missingErr)
	}
	if foreignErr.Error() != missingErr.Error() {
		t.Fatalf("errors are distinguishable: %q vs %q", foreignErr, missingErr)
	}

	if _, err := svc.UpdateByOwner(ctx, bob, todo.ID, domain.TodoPatch{IsDone: domain.Some(true)}); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("update: expected ErrTodoNotFound, got %v", err)
	}
	if err := svc.ToggleByOwner(ctx, bob, todo.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("toggle: expected ErrTodoNotFound, got %v", err)
	}
	if err := svc.DeleteByOwner(ctx, bob, todo.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("delete: expected ErrTodoNotFound, got %v", err)
	}

	got, err := svc.GetByOwner(ctx, alice, todo.ID)
	if err != nil || got.IsDone {
		t.Fatalf("owner's todo was touched by another user: %+v, %v", got, err)
	}
}

func TestTodoService_UpdateByOwner_EmptyPatch(t *testing.T) {
	svc, repo, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	todo, _ := svc.Create(ctx, alice, "keep", strPtr("as is"))

	got, err := svc.UpdateByOwner(ctx, alice, todo.ID, domain.TodoPatch{})
	if err != nil {
		t.Fatalf("UpdateByOwner returned error: %v", err)
	}
	if got.Title != "keep" || got.Description == nil || *got.Description != "as is" || got.IsDone {
		t.Fatalf("empty patch changed todo: %+v", got)
	}
	if repo.updates != 0 {
		t.Fatalf("empty patch should not write, got %d writes", repo.updates)
	}
}

func TestTodoService_UpdateByOwner_IsDoneIsNotAToggle(t *testing.T) {
	svc, _, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	todo, _ := svc.Create(ctx, alice, "task", nil)
	patch := domain.TodoPatch{IsDone: domain.Some(true)}

	for i := 0; i < 2; i++ {
		got, err := svc.UpdateByOwner(ctx, alice, todo.ID, patch)
		if err != nil {
			t.Fatalf("UpdateByOwner returned error: %v", err)
		}
		if !got.IsDone {
			t.Fatalf("round %d: expected isDone=true", i+1)
		}
	}
}

func TestTodoService_UpdateByOwner_TriStateDescription(t *testing.T) {
	svc, _, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	todo, _ := svc.Create(ctx, alice, "task", strPtr("details"))

	got, err := svc.UpdateByOwner(ctx, alice, todo.ID, domain.TodoPatch{Title: domain.Some("renamed")})
	if err != nil {
		t.Fatalf("UpdateByOwner returned error: %v", err)
	}
	if got.Title != "renamed" || got.Description == nil || *got.Description != "details" {
		t.Fatalf("absent description must be kept: %+v", got)
	}

	got, err = svc.UpdateByOwner(ctx, alice, todo.ID, domain.TodoPatch{Description: domain.Null[string]()})
	if err != nil {
		t.Fatalf("UpdateByOwner returned error: %v", err)
	}
	if got.Description != nil {
		t.Fatalf("explicit null must clear description, got %q", *got.Description)
	}

	stored, _ := svc.GetByOwner(ctx, alice, todo.ID)
	if stored.Description != nil || stored.Title != "renamed" {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func TestTodoService_UpdateByOwner_BlankTitle(t *testing.T) {
	svc, _, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	todo, _ := svc.Create(ctx, alice, "task", nil)

	if _, err := svc.UpdateByOwner(ctx, alice, todo.ID, domain.TodoPatch{Title: domain.Some(" ")}); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	stored, _ := svc.GetByOwner(ctx, alice, todo.ID)
	if stored.Title != "task" {
		t.Fatalf("title changed despite validation failure: %q", stored.Title)
	}
}

func TestTodoService_ToggleIsSelfInverse(t *testing.T) {
	svc, _, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	todo, _ := svc.Create(ctx, alice, "flip", nil)

	if err := svc.ToggleByOwner(ctx, alice, todo.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, _ := svc.GetByOwner(ctx, alice, todo.ID)
	if !got.IsDone {
		t.Fatalf("expected done after one toggle")
	}

	if err := svc.ToggleByOwner(ctx, alice, todo.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, _ = svc.GetByOwner(ctx, alice, todo.ID)
	if got.IsDone {
		t.Fatalf("expected original value after two toggles")
	}
}

func TestTodoService_DeleteIsPermanent(t *testing.T) {
	svc, _, alice, _ := newTestTodoService(t)
	ctx := context.Background()

	todo, _ := svc.Create(ctx, alice, "gone", nil)

	if err := svc.DeleteByOwner(ctx, alice, todo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByOwner(ctx, alice, todo.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("get after delete: expected ErrTodoNotFound, got %v", err)
	}
	if _, err := svc.UpdateByOwner(ctx, alice, todo.ID, domain.TodoPatch{Title: domain.Some("x")}); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("update after delete: expected ErrTodoNotFound, got %v", err)
	}
	if err := svc.DeleteByOwner(ctx, alice, todo.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Fatalf("second delete: expected ErrTodoNotFound, got %v", err)
	}
}
