package http

import (
	"errors"
	"fmt"
	"net/http"

	"portfolio-cms/internal/http/middleware"
	apperrors "portfolio-cms/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const msgInternalServerError = "Internal server error"

// NewHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to status codes, hides internal errors, and logs
// with the request id.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := mapError(err)

		requestID := middleware.GetRequestID(c)
		if requestID == "" {
			requestID = "unknown"
		}

		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("request_id", requestID).
				Int("status", code).
				Msg("internal_server_error")
			message = msgInternalServerError
		} else {
			log.Warn().
				Err(err).
				Str("request_id", requestID).
				Int("status", code).
				Msg("client_error")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, map[string]interface{}{
				"error":      message,
				"request_id": requestID,
			})
		}
		if writeErr != nil {
			log.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}

func mapError(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := http.StatusInternalServerError
	message := msgInternalServerError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrUnauthenticated):
		code, message = http.StatusUnauthorized, "Sign in required"
	case errors.Is(err, apperrors.ErrUnauthorized):
		code, message = http.StatusForbidden, "Insufficient permissions"
	case errors.Is(err, apperrors.ErrBadRequest):
		code, message = http.StatusBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrValidation):
		code, message = http.StatusBadRequest, "Validation error"
	case errors.Is(err, apperrors.ErrConflict):
		code, message = http.StatusConflict, "Resource already exists"
	case errors.Is(err, apperrors.ErrRateLimited):
		code, message = http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, apperrors.ErrUpstreamProvider):
		code, message = http.StatusBadGateway, "Upstream provider error"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code < http.StatusInternalServerError && appErr.Message != "" {
		message = appErr.Message
	}

	return code, message
}
