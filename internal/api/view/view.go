// Package view renders the server-side HTML pages from templates embedded in
// the binary.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/aircha/todo-web/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names.
const (
	Signup = "signup"
	Login  = "login"
	List   = "list"
	Create = "create"
	Update = "update"
	Error  = "error"
)

// Page is the data handed to every template. Pages read only the fields they need.
type Page struct {
	Title   string
	User    *domain.SessionUser
	Form    any
	Errors  map[string]string
	Message string
	Todos   []domain.Todo
	Status  int
}

// FieldError returns the message recorded for field, if any.
func (p Page) FieldError(field string) string {
	return p.Errors[field]
}

// Renderer implements echo.Renderer on top of html/template.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	t, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// MustNew is New for package initialisation; the templates are compiled in,
// so a parse failure is a programming error.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
