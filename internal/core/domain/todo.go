package domain

import (
	"strings"
	"time"
)

// Todo is a task owned by exactly one user. OwnerID is fixed at creation.
type Todo struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description *string
	IsDone      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoPatch carries a partial update. Each field is tri-state: absent fields are
// left unchanged, and an explicit null description clears it.
type TodoPatch struct {
	Title       Optional[string]
	Description Optional[string]
	IsDone      Optional[bool]
}

// Apply validates the patch and writes its present fields onto t.
// title and isDone set to null count as absent.
func (p TodoPatch) Apply(t *Todo) error {
	if title, ok := p.Title.Get(); ok {
		if strings.TrimSpace(title) == "" {
			return NewValidationError("title", "Title is required")
		}
		t.Title = title
	}
	if p.Description.Present {
		if d, ok := p.Description.Get(); ok {
			t.Description = &d
		} else {
			t.Description = nil
		}
	}
	if done, ok := p.IsDone.Get(); ok {
		t.IsDone = done
	}
	return nil
}

// IsEmpty reports whether the patch would leave a todo untouched.
func (p TodoPatch) IsEmpty() bool {
	return !p.Title.Present && !p.Description.Present && !p.IsDone.Present
}
