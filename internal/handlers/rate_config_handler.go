package handlers

import (
	"net/http"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"github.com/SellStarHQ/partner-rewards-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RateConfigHandler handles conversion rate table HTTP requests
type RateConfigHandler struct {
	rateConfigService services.RateConfigService
}

// NewRateConfigHandler creates a new RateConfigHandler
func NewRateConfigHandler(rateConfigService services.RateConfigService) *RateConfigHandler {
	return &RateConfigHandler{rateConfigService: rateConfigService}
}

// GetRateConfig handles GET /rates
func (h *RateConfigHandler) GetRateConfig(c *gin.Context) {
	config, err := h.rateConfigService.GetRateConfig(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}

// UpdateRateConfig handles PUT /admin/rates. Changing rates does not touch
// already-awarded points; admins trigger the recalculation job separately.
func (h *RateConfigHandler) UpdateRateConfig(c *gin.Context) {
	var config models.RateConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.rateConfigService.UpdateRateConfig(c.Request.Context(), &config, currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
