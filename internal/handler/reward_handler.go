package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"goodcitizen/internal/service"
)

// RewardHandler handles the reward catalog and redemption endpoints.
type RewardHandler struct {
	rewardService service.RewardService
}

// NewRewardHandler creates a new reward handler.
func NewRewardHandler(rewardService service.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// RedeemRequest names the catalog reward to redeem.
type RedeemRequest struct {
	RewardID string `json:"reward_id" validate:"required"`
}

// List godoc
// @Summary List redeemable rewards
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /rewards [get]
func (h *RewardHandler) List(c echo.Context) error {
	userID, _, err := claimsFromContext(c)
	if err != nil {
		return err
	}

	rewards, points, err := h.rewardService.AvailableRewards(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"rewards":     rewards,
		"user_points": points,
	})
}

// Redeem godoc
// @Summary Redeem points for a reward
// @Description Debits the point cost and issues a time-limited reward code.
// @Tags rewards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RedeemRequest true "Reward to redeem"
// @Success 200 {object} model.Redemption
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rewards/redeem [post]
func (h *RewardHandler) Redeem(c echo.Context) error {
	userID, _, err := claimsFromContext(c)
	if err != nil {
		return err
	}

	var req RedeemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	redemption, err := h.rewardService.Redeem(c.Request().Context(), userID, req.RewardID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, redemption)
}

// MyRedemptions godoc
// @Summary List the current user's redemptions
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Redemption
// @Router /rewards/my-redemptions [get]
func (h *RewardHandler) MyRedemptions(c echo.Context) error {
	userID, _, err := claimsFromContext(c)
	if err != nil {
		return err
	}

	redemptions, err := h.rewardService.MyRedemptions(c.Request().Context(), userID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, redemptions)
}

// Use godoc
// @Summary Mark a redemption code as used
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Success 200 {object} model.Redemption
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /rewards/redemptions/{id}/use [post]
func (h *RewardHandler) Use(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	redemption, err := h.rewardService.Use(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, redemption)
}
