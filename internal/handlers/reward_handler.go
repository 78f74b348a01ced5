package handlers

import (
	"net/http"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RewardHandler handles reward catalog HTTP requests
type RewardHandler struct {
	rewardService services.RewardService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService services.RewardService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService}
}

// GetRewards handles GET /rewards. Non-admin callers only see active rewards;
// admins can pass ?all=true to include retired entries.
func (h *RewardHandler) GetRewards(c *gin.Context) {
	page, limit := pagination(c)
	activeOnly := true
	if c.Query("all") == "true" && c.GetString("userRole") == models.RoleAdmin {
		activeOnly = false
	}

	rewards, err := h.rewardService.GetRewards(c.Request.Context(), activeOnly, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rewards)
}

// GetRewardByID handles GET /rewards/:id
func (h *RewardHandler) GetRewardByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reward, err := h.rewardService.GetRewardByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reward)
}

// CreateReward handles POST /admin/rewards
func (h *RewardHandler) CreateReward(c *gin.Context) {
	var reward models.Reward
	if err := c.ShouldBindJSON(&reward); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.rewardService.CreateReward(c.Request.Context(), &reward)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateReward handles PUT /admin/rewards/:id
func (h *RewardHandler) UpdateReward(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var reward models.Reward
	if err := c.ShouldBindJSON(&reward); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reward.ID = id

	updated, err := h.rewardService.UpdateReward(c.Request.Context(), &reward)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteReward handles DELETE /admin/rewards/:id
func (h *RewardHandler) DeleteReward(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.rewardService.DeleteReward(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reward deleted successfully"})
}
