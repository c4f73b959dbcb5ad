package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	sessions *SessionManager
}

func NewMiddleware(sessions *SessionManager) *Middleware {
	return &Middleware{sessions: sessions}
}

// LoadSession attaches a valid session to the request context. Invalid
// cookies are cleared and the request continues anonymously.
func (m *Middleware) LoadSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := c.Cookie(SessionCookieName); err != nil {
				return next(c)
			}

			s, err := m.sessions.Read(c.Request())
			if err != nil {
				m.sessions.Clear(c.Response())
				return next(c)
			}

			c.Set(ContextKeySession, s)
			c.SetRequest(c.Request().WithContext(WithSession(c.Request().Context(), s)))
			return next(c)
		}
	}
}

// RequireSession rejects anonymous requests with 401.
func (m *Middleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := SessionFromContext(c.Request().Context()); !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{jsonKeyError: msgSessionMissing})
			}
			return next(c)
		}
	}
}

// GetSession returns the session loaded for this request.
func GetSession(c echo.Context) (*Session, bool) {
	return SessionFromContext(c.Request().Context())
}
