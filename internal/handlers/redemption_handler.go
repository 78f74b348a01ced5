package handlers

import (
	"net/http"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedemptionHandler handles redemption-related HTTP requests
type RedemptionHandler struct {
	redemptionService services.RedemptionService
}

// NewRedemptionHandler creates a new RedemptionHandler
func NewRedemptionHandler(redemptionService services.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{redemptionService: redemptionService}
}

// RequestRedemption handles POST /redemptions
func (h *RedemptionHandler) RequestRedemption(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		RewardID string `json:"rewardId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rewardID, err := primitive.ObjectIDFromHex(req.RewardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reward ID format"})
		return
	}

	userReward, err := h.redemptionService.RequestRedemption(c.Request.Context(), userID, rewardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userReward)
}

// GetMyRedemptions handles GET /redemptions
func (h *RedemptionHandler) GetMyRedemptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)

	userRewards, err := h.redemptionService.GetRedemptionsByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, userRewards)
}

// GetRedemptionsByStatus handles GET /admin/redemptions/status/:status
func (h *RedemptionHandler) GetRedemptionsByStatus(c *gin.Context) {
	status := models.RedemptionStatus(c.Param("status"))
	page, limit := pagination(c)

	userRewards, err := h.redemptionService.GetRedemptionsByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, userRewards)
}

// ApproveRedemption handles POST /admin/redemptions/:id/approve
func (h *RedemptionHandler) ApproveRedemption(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	userReward, err := h.redemptionService.ApproveRedemption(c.Request.Context(), id, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, userReward)
}

// RejectRedemption handles POST /admin/redemptions/:id/reject
func (h *RedemptionHandler) RejectRedemption(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// Reason is optional; an empty body is fine
	_ = c.ShouldBindJSON(&req)

	userReward, err := h.redemptionService.RejectRedemption(c.Request.Context(), id, currentActor(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, userReward)
}

// UpdateShipmentStatus handles PUT /admin/redemptions/:id/shipment
func (h *RedemptionHandler) UpdateShipmentStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.ShipmentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userReward, err := h.redemptionService.UpdateShipmentStatus(c.Request.Context(), id, req.Status, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, userReward)
}
