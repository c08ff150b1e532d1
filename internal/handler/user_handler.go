package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"goodcitizen/internal/service"
)

// UserHandler handles user profile, leaderboard and stats endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Leaderboard godoc
// @Summary Points leaderboard
// @Description Ranks citizens by points, computed at request time.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of entries (default 10)"
// @Success 200 {array} service.LeaderboardEntry
// @Router /users/leaderboard [get]
func (h *UserHandler) Leaderboard(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.userService.Leaderboard(c.Request().Context(), limit)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Stats godoc
// @Summary Current user's report statistics
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserStats
// @Router /users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	userID, _, err := claimsFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.userService.Stats(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// Get godoc
// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.GetProfile(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}
