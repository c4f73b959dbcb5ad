package handler

import (
	"net/http"

	"portfolio-cms/internal/actions"

	"github.com/labstack/echo/v4"
)

// StatusForKind maps an action failure kind to its HTTP status.
func StatusForKind(kind actions.Kind) int {
	switch kind {
	case actions.KindUnauthenticated:
		return http.StatusUnauthorized
	case actions.KindUnauthorized:
		return http.StatusForbidden
	case actions.KindValidation:
		return http.StatusBadRequest
	case actions.KindNotFound:
		return http.StatusNotFound
	case actions.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondFailure writes a failed action. The message on a Failure is already
// safe for clients.
func respondFailure(c echo.Context, f *actions.Failure) error {
	return c.JSON(StatusForKind(f.Kind), map[string]string{
		jsonKeyError: f.Message,
		jsonKeyKind:  string(f.Kind),
	})
}

// respond writes res as JSON with status, converting the value through
// render, or writes the failure.
func respond[T, R any](c echo.Context, status int, res actions.Result[T], render func(T) R) error {
	if res.Err != nil {
		return respondFailure(c, res.Err)
	}
	return c.JSON(status, render(res.Value))
}
