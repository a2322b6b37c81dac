package handler

import (
	"errors"
	"testing"

	"github.com/aircha/todo-web/internal/core/domain"
)

func TestValidator_FieldMessages(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		input any
		want  map[string]string
	}{
		{"signup missing everything", &signupForm{}, map[string]string{
			"email":    "Email is required",
			"password": "Password is required",
			"nickname": "Nickname is required",
		}},
		{"malformed email", &loginForm{Email: "nope", Password: "pw"}, map[string]string{
			"email": "Enter a valid email",
		}},
		{"blank title", &createTodoRequest{Title: "  \t"}, map[string]string{
			"title": "Title is required",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Fields) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, ve.Fields)
			}
			for field, msg := range tt.want {
				if ve.Fields[field] != msg {
					t.Fatalf("field %s: expected %q, got %q", field, msg, ve.Fields[field])
				}
			}
		})
	}
}

func TestValidator_Valid(t *testing.T) {
	if err := NewValidator().Validate(&signupForm{Email: "a@b.com", Password: "pw", Nickname: "A"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
