package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20 // Keep parser bound aligned with global body limit.
)

func bindStrictJSON(c echo.Context, dst interface{}) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	return nil
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(paramID))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, msgInvalidID)
	}
	return id, nil
}

func parsePaginationParams(c echo.Context, defaultLimit int) (limit int, offset int, err error) {
	limit = defaultLimit

	if limitStr := c.QueryParam(queryLimit); limitStr != "" {
		parsedLimit, parseErr := strconv.Atoi(limitStr)
		if parseErr != nil || parsedLimit <= 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, msgInvalidLimit)
		}

		if parsedLimit > maxPaginationLimit {
			limit = maxPaginationLimit
		} else {
			limit = parsedLimit
		}
	}

	if offsetStr := c.QueryParam(queryOffset); offsetStr != "" {
		parsedOffset, parseErr := strconv.Atoi(offsetStr)
		if parseErr != nil || parsedOffset < 0 || parsedOffset > maxPaginationOffset {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, msgInvalidOffset)
		}

		offset = parsedOffset
	}

	return limit, offset, nil
}

// queryInt reads an optional integer query parameter; absent means zero.
func queryInt(c echo.Context, name, msg string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, msg)
	}
	return n, nil
}
