// internal/handlers/rewards.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/nightpulse/backend/internal/services"
	"github.com/nightpulse/backend/internal/utils"
)

type RewardsHandler struct {
	rewardsService *services.RewardsService
}

func NewRewardsHandler(rewardsService *services.RewardsService) *RewardsHandler {
	return &RewardsHandler{
		rewardsService: rewardsService,
	}
}

// GET /rewards/tiers
func (h *RewardsHandler) ListTiers(c *gin.Context) {
	tiers, err := h.rewardsService.ListTiers()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, tiers)
}

// GET /rewards/me
func (h *RewardsHandler) GetMyRewards(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rewards, err := h.rewardsService.GetUserRewards(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, rewards)
}
