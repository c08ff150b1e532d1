package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"goodcitizen/internal/model"
	"goodcitizen/internal/service"
)

// AuthorityHandler handles the authority registry endpoints.
type AuthorityHandler struct {
	authorityService service.AuthorityService
}

// NewAuthorityHandler creates a new authority handler.
func NewAuthorityHandler(authorityService service.AuthorityService) *AuthorityHandler {
	return &AuthorityHandler{authorityService: authorityService}
}

// AuthorityRequest represents authority create/update data.
type AuthorityRequest struct {
	Name          string   `json:"name" validate:"omitempty,min=2"`
	Email         string   `json:"email" validate:"omitempty,email"`
	ContactNumber string   `json:"contact_number"`
	Department    string   `json:"department"`
	Jurisdiction  string   `json:"jurisdiction"`
	Categories    []string `json:"categories"`
	IsActive      *bool    `json:"is_active"`
}

func (r *AuthorityRequest) toInput() service.AuthorityInput {
	categories := make([]model.ReportCategory, 0, len(r.Categories))
	for _, c := range r.Categories {
		categories = append(categories, model.ReportCategory(c))
	}
	if r.Categories == nil {
		categories = nil
	}
	return service.AuthorityInput{
		Name:          r.Name,
		Email:         r.Email,
		ContactNumber: r.ContactNumber,
		Department:    model.Department(r.Department),
		Jurisdiction:  r.Jurisdiction,
		Categories:    categories,
		IsActive:      r.IsActive,
	}
}

// List godoc
// @Summary List active authorities
// @Tags authorities
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Authority
// @Router /authorities [get]
func (h *AuthorityHandler) List(c echo.Context) error {
	authorities, err := h.authorityService.ListActive(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, authorities)
}

// Create godoc
// @Summary Register a new authority
// @Tags authorities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AuthorityRequest true "Authority data"
// @Success 201 {object} model.Authority
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /authorities [post]
func (h *AuthorityHandler) Create(c echo.Context) error {
	var req AuthorityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	authority, err := h.authorityService.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, authority)
}

// Update godoc
// @Summary Update an authority
// @Tags authorities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Authority ID"
// @Param request body AuthorityRequest true "Fields to change"
// @Success 200 {object} model.Authority
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /authorities/{id} [put]
func (h *AuthorityHandler) Update(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req AuthorityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	authority, err := h.authorityService.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, authority)
}

// Delete godoc
// @Summary Delete an authority
// @Tags authorities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Authority ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /authorities/{id} [delete]
func (h *AuthorityHandler) Delete(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.authorityService.Delete(c.Request().Context(), id); err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "authority deleted successfully"})
}
