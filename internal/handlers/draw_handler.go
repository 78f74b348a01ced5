package handlers

import (
	"net/http"

	"github.com/SellStarHQ/partner-rewards-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// DrawHandler handles monthly grand prize draw HTTP requests
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{drawService: drawService}
}

// ExecuteDraw handles POST /admin/draws
func (h *DrawHandler) ExecuteDraw(c *gin.Context) {
	var req struct {
		Month string `json:"month" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draw, err := h.drawService.ExecuteMonthlyDraw(c.Request.Context(), req.Month, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, draw)
}

// GetDraws handles GET /admin/draws
func (h *DrawHandler) GetDraws(c *gin.Context) {
	page, limit := pagination(c)

	draws, err := h.drawService.GetDraws(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, draws)
}
