package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aircha/todo-web/internal/core/domain"
	"github.com/aircha/todo-web/internal/core/ports"
)

// SessionUserKey is the echo.Context key holding the *domain.SessionUser of
// an authorized request.
const SessionUserKey = "session_user"

// SessionCookie describes the browser cookie carrying the session token.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Read returns the token sent by the browser, or "" when there is none.
func (sc SessionCookie) Read(c echo.Context) string {
	cookie, err := c.Cookie(sc.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Write hands token to the browser. The cookie is HttpOnly and SameSite=Lax.
func (sc SessionCookie) Write(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sc.TTL.Seconds()),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear tells the browser to drop the cookie.
func (sc SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RejectFunc answers a request that carries no valid session.
type RejectFunc func(c echo.Context) error

// RedirectToLogin sends browsers to the login page.
func RedirectToLogin(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/login")
}

// Unauthorized lets the error handler answer with 401.
func Unauthorized(echo.Context) error {
	return domain.ErrUnauthenticated
}

// RequireSession resolves the session cookie through gate and injects the
// identity into the context. Requests without a valid session never reach next.
func RequireSession(gate ports.SessionGate, cookie SessionCookie, reject RejectFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := cookie.Read(c)
			if token == "" {
				return reject(c)
			}

			user, err := gate.Authorize(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					cookie.Clear(c)
					return reject(c)
				}
				return err
			}

			c.Set(SessionUserKey, user)
			return next(c)
		}
	}
}
