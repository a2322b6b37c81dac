package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aircha/todo-web/internal/api/metrics"
	"github.com/aircha/todo-web/internal/api/middleware"
	"github.com/aircha/todo-web/internal/api/view"
	"github.com/aircha/todo-web/internal/core/domain"
	"github.com/aircha/todo-web/internal/core/ports"
	"github.com/aircha/todo-web/pkg/logger"
)

// AuthHandler serves the signup, login and logout pages.
type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionGate
	cookie      middleware.SessionCookie
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionGate, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, cookie: cookie}
}

type signupForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,notblank"`
	Nickname string `form:"nickname" validate:"required,notblank,max=64"`
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, view.Signup, view.Page{Title: "Sign up", Form: signupForm{}})
}

// Signup creates the account and sends the browser to the login page.
// Input problems re-render the form with the submitted values.
func (h *AuthHandler) Signup(c echo.Context) error {
	var form signupForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	page := view.Page{Title: "Sign up", Form: signupForm{Email: form.Email, Nickname: form.Nickname}}
	if err := c.Validate(&form); err != nil {
		return renderFormError(c, view.Signup, page, err)
	}

	_, err := h.authService.Register(c.Request().Context(), form.Email, form.Password, form.Nickname)
	switch {
	case err == nil:
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "success").Inc()
		return c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, domain.ErrDuplicateEmail):
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "duplicate").Inc()
		page.Errors = map[string]string{"email": "Email is already in use"}
		return c.Render(http.StatusOK, view.Signup, page)
	case domain.IsValidation(err):
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "invalid").Inc()
		return renderFormError(c, view.Signup, page, err)
	default:
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "error").Inc()
		return err
	}
}

func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, view.Login, view.Page{Title: "Log in", Form: loginForm{}})
}

// Login verifies the credentials, replaces any session the browser already
// holds and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	page := view.Page{Title: "Log in", Form: loginForm{Email: form.Email}}
	if err := c.Validate(&form); err != nil {
		return renderFormError(c, view.Login, page, err)
	}

	ctx := c.Request().Context()
	user, err := h.authService.Authenticate(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
			page.Message = "Invalid email or password"
			return c.Render(http.StatusOK, view.Login, page)
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return err
	}

	if old := h.cookie.Read(c); old != "" {
		if err := h.sessions.Revoke(ctx, old); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("failed to revoke previous session")
		} else {
			metrics.SessionsTotal.WithLabelValues("revoked").Inc()
		}
	}

	token, err := h.sessions.Issue(ctx, user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "error").Inc()
		return err
	}
	h.cookie.Write(c, token)

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	metrics.SessionsTotal.WithLabelValues("issued").Inc()
	logger.FromContext(ctx).Info().Int64("user_id", user.ID).Msg("user logged in")
	return c.Redirect(http.StatusFound, "/todos")
}

// Logout ends the session. It succeeds whether or not one exists.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if token := h.cookie.Read(c); token != "" {
		if err := h.sessions.Revoke(ctx, token); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("failed to revoke session")
		} else {
			metrics.SessionsTotal.WithLabelValues("revoked").Inc()
		}
	}
	h.cookie.Clear(c)
	return c.Redirect(http.StatusFound, "/login")
}

// renderFormError re-renders a form page for validation failures and returns
// any other error untouched.
func renderFormError(c echo.Context, name string, page view.Page, err error) error {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	page.Errors = ve.Fields
	return c.Render(http.StatusOK, name, page)
}
