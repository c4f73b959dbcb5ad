package handler

import (
	"net/http"

	"portfolio-cms/internal/actions"
	"portfolio-cms/internal/domain/post"

	"github.com/labstack/echo/v4"
)

const msgInvalidPostStatus = "status must be draft or published"

type PostHandler struct {
	posts PostActions
}

func NewPostHandler(posts PostActions) *PostHandler {
	return &PostHandler{posts: posts}
}

func (h *PostHandler) ListPosts(c echo.Context) error {
	limit, offset, err := parsePaginationParams(c, defaultListLimit)
	if err != nil {
		return handleHTTPError(c, err)
	}

	filter := post.ListPostsFilter{
		Tag:    c.QueryParam(queryTag),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.QueryParam(queryStatus); raw != "" {
		status := post.Status(raw)
		if status != post.StatusDraft && status != post.StatusPublished {
			return respondError(c, http.StatusBadRequest, msgInvalidPostStatus)
		}
		filter.Status = &status
	}

	return respond(c, http.StatusOK, h.posts.ListPosts(c.Request().Context(), filter), newPostList)
}

func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}
	return respond(c, http.StatusOK, h.posts.GetPost(c.Request().Context(), id), newPostResponse)
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	var req PostRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	res := h.posts.CreatePost(c.Request().Context(), actions.PostDraft{
		Slug:          req.Slug,
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Tags:          req.Tags,
		CoverImageURL: req.CoverImageURL,
	})
	return respond(c, http.StatusCreated, res, newPostResponse)
}

func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	var req PostPatchRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	res := h.posts.UpdatePost(c.Request().Context(), id, actions.PostChanges{
		Slug:          req.Slug,
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Tags:          req.Tags,
		CoverImageURL: req.CoverImageURL,
	})
	return respond(c, http.StatusOK, res, newPostResponse)
}

func (h *PostHandler) PublishPost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}
	return respond(c, http.StatusOK, h.posts.PublishPost(c.Request().Context(), id), newPostResponse)
}

func (h *PostHandler) UnpublishPost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}
	return respond(c, http.StatusOK, h.posts.UnpublishPost(c.Request().Context(), id), newPostResponse)
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}
	return respond(c, http.StatusOK, h.posts.DeletePost(c.Request().Context(), id), newPostResponse)
}
