package handler

import (
	"net/http"

	"portfolio-cms/internal/actions"
	"portfolio-cms/internal/domain/contact"

	"github.com/labstack/echo/v4"
)

// PublicHandler serves the anonymous site API.
type PublicHandler struct {
	site PublicActions
}

func NewPublicHandler(site PublicActions) *PublicHandler {
	return &PublicHandler{site: site}
}

// ListPosts returns published posts. Without ?limit the site page size
// applies.
func (h *PublicHandler) ListPosts(c echo.Context) error {
	limit, offset, err := parsePaginationParams(c, 0)
	if err != nil {
		return handleHTTPError(c, err)
	}

	res := h.site.PublishedPosts(c.Request().Context(), c.QueryParam(queryTag), limit, offset)
	return respond(c, http.StatusOK, res, newPublicPostList)
}

func (h *PublicHandler) GetPost(c echo.Context) error {
	return respond(c, http.StatusOK, h.site.PublishedPost(c.Request().Context(), c.Param(paramSlug)), newPublicPostResponse)
}

func (h *PublicHandler) Settings(c echo.Context) error {
	return respond(c, http.StatusOK, h.site.PublicSettings(c.Request().Context()), func(m map[string]string) map[string]string {
		return m
	})
}

func (h *PublicHandler) SubmitContact(c echo.Context) error {
	var req ContactRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	res := h.site.SubmitContact(c.Request().Context(), actions.ContactForm{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	return respond(c, http.StatusCreated, res, func(*contact.Submission) map[string]string {
		return map[string]string{jsonKeyMessage: msgContactReceived}
	})
}

func (h *PublicHandler) RecordPageView(c echo.Context) error {
	var req PageViewRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	res := h.site.RecordPageView(c.Request().Context(), req.Path, req.Referrer)
	return respond(c, http.StatusAccepted, res, func(struct{}) map[string]string {
		return map[string]string{jsonKeyMessage: msgPageViewRecorded}
	})
}
