package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aircha/todo-web/internal/api/view"
	"github.com/aircha/todo-web/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// jsonPrefixes are the paths answered with the JSON envelope; everything else
// is a browser page and gets the HTML error page.
var jsonPrefixes = []string{"/api/", "/health", "/metrics", "/swagger"}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"error": "<message>"} for API routes and the error page for pages.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if !wantsJSON(c) {
			if errors.Is(err, domain.ErrUnauthenticated) {
				_ = c.Redirect(http.StatusFound, "/login")
				return
			}
			code, msg := resolveError(err, log, c)
			page := view.Page{Title: http.StatusText(code), Status: code, Message: msg}
			if c.Echo().Renderer == nil || c.Render(code, view.Error, page) != nil {
				_ = c.String(code, msg)
			}
			return
		}

		code, msg := resolveError(err, log, c)
		resp := errorResponse{Error: msg}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			resp.Fields = ve.Fields
		}
		_ = c.JSON(code, resp)
	}
}

func wantsJSON(c echo.Context) bool {
	path := c.Request().URL.Path
	for _, p := range jsonPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, ve.Error()
	}

	switch {
	case errors.Is(err, domain.ErrTodoNotFound):
		return http.StatusNotFound, "todo not found"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid email or password"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "email already in use"
	}

	// Unexpected error, including a session whose owner no longer exists:
	// log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Request().URL.Path).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
