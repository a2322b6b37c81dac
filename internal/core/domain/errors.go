package domain

import (
	"errors"
	"sort"
	"strings"
)

var ErrDuplicateEmail = errors.New("email already in use")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrUserNotFound = errors.New("user not found")

// ErrTodoNotFound is returned both for missing todos and for todos owned by
// someone else; callers cannot tell the two apart.
var ErrTodoNotFound = errors.New("todo not found")

// ErrOwnerNotFound means a session referenced a user the store no longer has.
var ErrOwnerNotFound = errors.New("owner not found")

var ErrUnauthenticated = errors.New("authentication required")
var ErrSessionNotFound = errors.New("session not found")

// ValidationError reports user-correctable input problems keyed by field name.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return strings.Join(msgs, "; ")
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
