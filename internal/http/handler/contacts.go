package handler

import (
	"net/http"

	"portfolio-cms/internal/domain/contact"

	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	contacts ContactActions
}

func NewContactHandler(contacts ContactActions) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func (h *ContactHandler) ListSubmissions(c echo.Context) error {
	limit, offset, err := parsePaginationParams(c, defaultListLimit)
	if err != nil {
		return handleHTTPError(c, err)
	}

	filter := contact.ListSubmissionsFilter{Limit: limit, Offset: offset}
	if raw := c.QueryParam(queryStatus); raw != "" {
		status := contact.Status(raw)
		filter.Status = &status
	}

	return respond(c, http.StatusOK, h.contacts.ListSubmissions(c.Request().Context(), filter), newContactList)
}

func (h *ContactHandler) GetSubmission(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}
	return respond(c, http.StatusOK, h.contacts.GetSubmission(c.Request().Context(), id), newContactResponse)
}

func (h *ContactHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	var req StatusRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	res := h.contacts.UpdateSubmissionStatus(c.Request().Context(), id, contact.Status(req.Status))
	return respond(c, http.StatusOK, res, newContactResponse)
}

func (h *ContactHandler) DeleteSubmission(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	res := h.contacts.DeleteSubmission(c.Request().Context(), id)
	if res.Err != nil {
		return respondFailure(c, res.Err)
	}
	return c.NoContent(http.StatusNoContent)
}
