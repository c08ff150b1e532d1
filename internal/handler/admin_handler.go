package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"goodcitizen/internal/model"
	"goodcitizen/internal/service"
)

// AdminHandler handles moderation and dashboard endpoints.
type AdminHandler struct {
	reportService service.ReportService
	statsService  service.StatsService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(reportService service.ReportService, statsService service.StatsService) *AdminHandler {
	return &AdminHandler{reportService: reportService, statsService: statsService}
}

// RejectRequest carries an optional rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// PendingReports godoc
// @Summary List the moderation queue
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ReportListResponse
// @Router /admin/reports/pending [get]
func (h *AdminHandler) PendingReports(c echo.Context) error {
	filter := listFilter(c)
	filter.Status = model.StatusPending
	reports, total, err := h.reportService.List(c.Request().Context(), filter)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, listResponse(reports, total, filter))
}

// Verify godoc
// @Summary Verify a pending report
// @Description Awards 10 points to the reporter and routes the report to a matching authority.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} model.Report
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/reports/{id}/verify [post]
func (h *AdminHandler) Verify(c echo.Context) error {
	moderatorID, _, err := claimsFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	report, err := h.reportService.Verify(c.Request().Context(), moderatorID, id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Reject godoc
// @Summary Reject a pending report
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body RejectRequest false "Rejection reason"
// @Success 200 {object} model.Report
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/reports/{id}/reject [post]
func (h *AdminHandler) Reject(c echo.Context) error {
	moderatorID, _, err := claimsFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req RejectRequest
	_ = c.Bind(&req) // reason is optional

	report, err := h.reportService.Reject(c.Request().Context(), moderatorID, id, req.Reason)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Resolve godoc
// @Summary Mark a verified report as resolved
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} model.Report
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/reports/{id}/resolve [post]
func (h *AdminHandler) Resolve(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	report, err := h.reportService.Resolve(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DashboardStats
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.statsService.Dashboard(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Export godoc
// @Summary Export filtered reports as CSV
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Success 200 {string} string "CSV payload"
// @Router /admin/reports/export [get]
func (h *AdminHandler) Export(c echo.Context) error {
	filter := listFilter(c)

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=reports-%d.csv`, time.Now().UnixMilli()))
	c.Response().WriteHeader(http.StatusOK)

	return h.statsService.ExportCSV(c.Request().Context(), filter, c.Response())
}
