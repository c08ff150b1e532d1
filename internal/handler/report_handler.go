package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"goodcitizen/internal/errors"
	"goodcitizen/internal/model"
	"goodcitizen/internal/repository"
	"goodcitizen/internal/service"
)

// Reports larger than this are rejected before touching the photo store.
const maxPhotoBytes = 10 << 20

// ReportHandler handles report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ReportListResponse is a paginated report listing.
type ReportListResponse struct {
	Reports     []model.Report `json:"reports"`
	Total       int64          `json:"total"`
	TotalPages  int64          `json:"total_pages"`
	CurrentPage int            `json:"current_page"`
}

// PeerVerifyRequest represents a peer verification vote.
type PeerVerifyRequest struct {
	Verified bool `json:"verified"`
}

func listFilter(c echo.Context) repository.ReportFilter {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return repository.ReportFilter{
		Category: model.ReportCategory(c.QueryParam("category")),
		Status:   model.ReportStatus(c.QueryParam("status")),
		Page:     page,
		Limit:    limit,
	}
}

func listResponse(reports []model.Report, total int64, filter repository.ReportFilter) ReportListResponse {
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	return ReportListResponse{
		Reports:     reports,
		Total:       total,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		CurrentPage: page,
	}
}

// Create godoc
// @Summary Submit a new report
// @Description Multipart submission with a photo and geolocation. The report starts Pending.
// @Tags reports
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Violation photo"
// @Param category formData string true "Report category"
// @Param description formData string true "10-500 character description"
// @Param latitude formData number true "Latitude"
// @Param longitude formData number true "Longitude"
// @Param address formData string false "Street address"
// @Param priority formData string false "Low, Medium or High"
// @Success 201 {object} model.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	userID, _, err := claimsFromContext(c)
	if err != nil {
		return err
	}

	latitude, err := strconv.ParseFloat(c.FormValue("latitude"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "valid latitude is required", Code: "VALIDATION_ERROR",
		})
	}
	longitude, err := strconv.ParseFloat(c.FormValue("longitude"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "valid longitude is required", Code: "VALIDATION_ERROR",
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "photo is required", Code: "VALIDATION_ERROR",
		})
	}
	if fileHeader.Size > maxPhotoBytes {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "photo exceeds 10MB", Code: "VALIDATION_ERROR",
		})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unreadable photo", Code: "VALIDATION_ERROR",
		})
	}
	defer file.Close()
	photoBytes, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unreadable photo", Code: "VALIDATION_ERROR",
		})
	}

	report, err := h.reportService.Submit(c.Request().Context(), userID, service.SubmitReportInput{
		Category:    model.ReportCategory(c.FormValue("category")),
		Description: c.FormValue("description"),
		Latitude:    latitude,
		Longitude:   longitude,
		Address:     c.FormValue("address"),
		Priority:    model.ReportPriority(c.FormValue("priority")),
		Photo:       photoBytes,
		PhotoType:   fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, report)
}

// List godoc
// @Summary List reports with filters
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ReportListResponse
// @Router /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	filter := listFilter(c)
	reports, total, err := h.reportService.List(c.Request().Context(), filter)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, listResponse(reports, total, filter))
}

// MyReports godoc
// @Summary List the current user's reports
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} ReportListResponse
// @Router /reports/my-reports [get]
func (h *ReportHandler) MyReports(c echo.Context) error {
	userID, _, err := claimsFromContext(c)
	if err != nil {
		return err
	}
	filter := listFilter(c)
	filter.UserID = &userID
	reports, total, err := h.reportService.List(c.Request().Context(), filter)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, listResponse(reports, total, filter))
}

// Get godoc
// @Summary Get a single report
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} model.Report
// @Failure 404 {object} errors.ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	report, err := h.reportService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, report)
}

// Delete godoc
// @Summary Delete a pending report
// @Description Owner or admin only; legal only while the report is Pending.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c echo.Context) error {
	userID, role, err := claimsFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.reportService.Delete(c.Request().Context(), userID, role, id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "report deleted successfully"})
}

// PeerVerify godoc
// @Summary Add a peer verification vote
// @Description One advisory vote per user per report.
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Report ID"
// @Param request body PeerVerifyRequest true "Vote"
// @Success 200 {object} model.Report
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reports/{id}/peer-verify [post]
func (h *ReportHandler) PeerVerify(c echo.Context) error {
	userID, _, err := claimsFromContext(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req PeerVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	report, err := h.reportService.PeerVerify(c.Request().Context(), userID, id, req.Verified)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, report)
}
