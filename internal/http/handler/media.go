package handler

import (
	"net/http"

	"portfolio-cms/internal/actions"
	"portfolio-cms/internal/domain/media"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type MediaHandler struct {
	media  MediaActions
	logger zerolog.Logger
}

func NewMediaHandler(items MediaActions, log zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		media:  items,
		logger: log.With().Str("component", "media_handler").Logger(),
	}
}

func (h *MediaHandler) ListMedia(c echo.Context) error {
	limit, offset, err := parsePaginationParams(c, defaultListLimit)
	if err != nil {
		return handleHTTPError(c, err)
	}

	res := h.media.ListMedia(c.Request().Context(), media.ListItemsFilter{
		ContentTypePrefix: c.QueryParam(queryType),
		Limit:             limit,
		Offset:            offset,
	})
	return respond(c, http.StatusOK, res, newMediaList)
}

// Upload accepts a multipart form with a "file" part and an optional
// "alt_text" field. Size and type checks happen in the action.
func (h *MediaHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile(formFile)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgFileRequired)
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error().Err(err).Msg(msgFileOpenFail)
		return respondError(c, http.StatusBadRequest, msgFileOpenFail)
	}
	defer f.Close()

	res := h.media.UploadMedia(c.Request().Context(), actions.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
		AltText:     c.FormValue(formAltText),
	})
	return respond(c, http.StatusCreated, res, newMediaResponse)
}

func (h *MediaHandler) UpdateAltText(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}

	var req AltTextRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	return respond(c, http.StatusOK, h.media.UpdateMediaAlt(c.Request().Context(), id, req.AltText), newMediaResponse)
}

func (h *MediaHandler) DeleteMedia(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleHTTPError(c, err)
	}
	return respond(c, http.StatusOK, h.media.DeleteMedia(c.Request().Context(), id), newMediaResponse)
}
