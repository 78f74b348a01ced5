package handlers

import (
	"net/http"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// DealHandler handles deal-related HTTP requests
type DealHandler struct {
	dealService services.DealService
}

// NewDealHandler creates a new DealHandler
func NewDealHandler(dealService services.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

// CreateDeal handles POST /deals
func (h *DealHandler) CreateDeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deal, err := h.dealService.CreateDeal(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deal)
}

// GetMyDeals handles GET /deals
func (h *DealHandler) GetMyDeals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)

	deals, err := h.dealService.GetDealsByUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deals)
}

// GetDealByID handles GET /deals/:id
func (h *DealHandler) GetDealByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.GetDealByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

// GetDealsByStatus handles GET /admin/deals/status/:status
func (h *DealHandler) GetDealsByStatus(c *gin.Context) {
	status := models.DealStatus(c.Param("status"))
	page, limit := pagination(c)

	deals, err := h.dealService.GetDealsByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deals)
}

// ApproveDeal handles POST /admin/deals/:id/approve
func (h *DealHandler) ApproveDeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.ApproveDeal(c.Request.Context(), id, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

// RejectDeal handles POST /admin/deals/:id/reject
func (h *DealHandler) RejectDeal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.RejectDeal(c.Request.Context(), id, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, deal)
}

// RecalculateAllDeals handles POST /admin/deals/recalculate
func (h *DealHandler) RecalculateAllDeals(c *gin.Context) {
	result, err := h.dealService.RecalculateAllDeals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
