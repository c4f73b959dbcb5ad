package handler

import (
	"net/http"

	"portfolio-cms/internal/audit"

	"github.com/labstack/echo/v4"
)

const msgInvalidAuditStatus = "status must be success, failure or denied"

// SiteHandler serves settings, analytics and the audit trail.
type SiteHandler struct {
	site SiteActions
}

func NewSiteHandler(site SiteActions) *SiteHandler {
	return &SiteHandler{site: site}
}

func (h *SiteHandler) ListSettings(c echo.Context) error {
	return respond(c, http.StatusOK, h.site.ListSettings(c.Request().Context()), newSettingList)
}

func (h *SiteHandler) UpdateSettings(c echo.Context) error {
	var req SettingsRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}
	return respond(c, http.StatusOK, h.site.UpdateSettings(c.Request().Context(), req.Values), newSettingList)
}

// Analytics returns the summary for ?days=N. Out-of-range values are clamped
// by the action.
func (h *SiteHandler) Analytics(c echo.Context) error {
	days, err := queryInt(c, queryDays, msgInvalidDays)
	if err != nil {
		return handleHTTPError(c, err)
	}
	return respond(c, http.StatusOK, h.site.AnalyticsSummary(c.Request().Context(), days), newAnalyticsResponse)
}

func (h *SiteHandler) Dashboard(c echo.Context) error {
	return respond(c, http.StatusOK, h.site.DashboardSummary(c.Request().Context()), newDashboardResponse)
}

func (h *SiteHandler) ListAuditEvents(c echo.Context) error {
	limit, offset, err := parsePaginationParams(c, defaultListLimit)
	if err != nil {
		return handleHTTPError(c, err)
	}

	filter := audit.QueryFilter{
		ActorEmail:   c.QueryParam(queryActor),
		ResourceType: c.QueryParam(queryResource),
		Limit:        limit,
		Offset:       offset,
	}
	if raw := c.QueryParam(queryStatus); raw != "" {
		status := audit.Status(raw)
		switch status {
		case audit.StatusSuccess, audit.StatusFailure, audit.StatusDenied:
			filter.Status = &status
		default:
			return respondError(c, http.StatusBadRequest, msgInvalidAuditStatus)
		}
	}

	return respond(c, http.StatusOK, h.site.ListAuditEvents(c.Request().Context(), filter), newAuditList)
}
