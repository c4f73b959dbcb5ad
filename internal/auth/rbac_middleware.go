package auth

import (
	"net/http"

	"portfolio-cms/internal/rbac"

	"github.com/labstack/echo/v4"
)

// Same text the guarded actions return on denial.
const msgPermissionDenied = "you don't have permission to perform this action"

// Authorizer is the subset of rbac.Predicates the middleware needs.
type Authorizer interface {
	CanView(email string) bool
	Authorize(email string, resource rbac.Resource, action rbac.Action) error
}

// RBACMiddleware rejects requests early for route groups. Guarded actions
// still authorize on their own.
type RBACMiddleware struct {
	predicates Authorizer
}

func NewRBACMiddleware(predicates Authorizer) *RBACMiddleware {
	return &RBACMiddleware{predicates: predicates}
}

// RequireMember allows any email present in the registry.
func (m *RBACMiddleware) RequireMember() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := GetSession(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{jsonKeyError: msgSessionMissing})
			}
			if !m.predicates.CanView(s.Email) {
				return c.JSON(http.StatusForbidden, map[string]string{jsonKeyError: msgPermissionDenied})
			}
			return next(c)
		}
	}
}

// RequirePermission allows the request when the session's role may perform
// action on resource.
func (m *RBACMiddleware) RequirePermission(resource rbac.Resource, action rbac.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := GetSession(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{jsonKeyError: msgSessionMissing})
			}
			if err := m.predicates.Authorize(s.Email, resource, action); err != nil {
				return c.JSON(http.StatusForbidden, map[string]string{jsonKeyError: msgPermissionDenied})
			}
			return next(c)
		}
	}
}
