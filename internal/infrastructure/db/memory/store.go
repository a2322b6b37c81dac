// Package memory keeps users, todos and sessions in process memory. It backs
// STORE_DRIVER=memory / SESSION_DRIVER=memory and the HTTP tests; data is lost
// on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aircha/todo-web/internal/core/domain"
)

// Store implements ports.UserRepository and ports.TodoRepository.
type Store struct {
	mu         sync.RWMutex
	users      map[int64]domain.User
	emails     map[string]int64
	todos      map[int64]domain.Todo
	nextUserID int64
	nextTodoID int64
}

func NewStore() *Store {
	return &Store{
		users:  make(map[int64]domain.User),
		emails: make(map[string]int64),
		todos:  make(map[int64]domain.Todo),
	}
}

// Ping always succeeds; it lets the readiness probe treat every backend alike.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[user.Email]; taken {
		return nil, domain.ErrDuplicateEmail
	}
	s.nextUserID++
	created := *user
	created.ID = s.nextUserID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	s.users[created.ID] = created
	s.emails[created.Email] = created.ID
	return &created, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// Todos returns a view of s satisfying ports.TodoRepository. Users and todos
// share one lock so owner checks see a consistent state.
func (s *Store) Todos() *TodoStore {
	return &TodoStore{s: s}
}

type TodoStore struct {
	s *Store
}

func (t *TodoStore) Create(_ context.Context, todo *domain.Todo) (*domain.Todo, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	t.s.nextTodoID++
	created := copyTodo(*todo)
	created.ID = t.s.nextTodoID
	t.s.todos[created.ID] = created
	out := copyTodo(created)
	return &out, nil
}

func (t *TodoStore) ListByOwner(_ context.Context, ownerID int64) ([]domain.Todo, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := []domain.Todo{}
	for _, todo := range t.s.todos {
		if todo.OwnerID == ownerID {
			out = append(out, copyTodo(todo))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *TodoStore) FindByOwner(_ context.Context, ownerID, id int64) (*domain.Todo, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	todo, ok := t.s.owned(ownerID, id)
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	out := copyTodo(todo)
	return &out, nil
}

func (t *TodoStore) UpdateByOwner(_ context.Context, todo *domain.Todo) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	stored, ok := t.s.owned(todo.OwnerID, todo.ID)
	if !ok {
		return domain.ErrTodoNotFound
	}
	stored.Title = todo.Title
	stored.Description = copyString(todo.Description)
	stored.IsDone = todo.IsDone
	stored.UpdatedAt = todo.UpdatedAt
	t.s.todos[stored.ID] = stored
	return nil
}

func (t *TodoStore) ToggleByOwner(_ context.Context, ownerID, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	stored, ok := t.s.owned(ownerID, id)
	if !ok {
		return domain.ErrTodoNotFound
	}
	stored.IsDone = !stored.IsDone
	stored.UpdatedAt = time.Now().UTC()
	t.s.todos[id] = stored
	return nil
}

func (t *TodoStore) DeleteByOwner(_ context.Context, ownerID, id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.owned(ownerID, id); !ok {
		return domain.ErrTodoNotFound
	}
	delete(t.s.todos, id)
	return nil
}

// owned must be called with mu held.
func (s *Store) owned(ownerID, id int64) (domain.Todo, bool) {
	todo, ok := s.todos[id]
	if !ok || todo.OwnerID != ownerID {
		return domain.Todo{}, false
	}
	return todo, true
}

func copyTodo(t domain.Todo) domain.Todo {
	t.Description = copyString(t.Description)
	return t
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
