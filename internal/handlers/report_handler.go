package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService services.ReportService
	pointsService services.PointsService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportService, pointsService services.PointsService) *ReportHandler {
	return &ReportHandler{reportService: reportService, pointsService: pointsService}
}

// GetMyStats handles GET /stats
func (h *ReportHandler) GetMyStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.reportService.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetUserStats handles GET /admin/users/:id/stats
func (h *ReportHandler) GetUserStats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	stats, err := h.reportService.GetUserStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetMyPointsHistory handles GET /points/history
func (h *ReportHandler) GetMyPointsHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)

	history, err := h.pointsService.History(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetMyBalance handles GET /points/balance
func (h *ReportHandler) GetMyBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	balance, err := h.pointsService.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	totalEarned, err := h.pointsService.TotalEarned(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance, "totalEarned": totalEarned})
}

// GetLeaderboard handles GET /leaderboard
func (h *ReportHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := h.reportService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetRevenueSummary handles GET /admin/reports/revenue
func (h *ReportHandler) GetRevenueSummary(c *gin.Context) {
	start, err := parseDateQuery(c, "start", time.Time{})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date, expected YYYY-MM-DD"})
		return
	}
	end, err := parseDateQuery(c, "end", time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date, expected YYYY-MM-DD"})
		return
	}

	summary, err := h.reportService.GetRevenueSummary(c.Request.Context(), c.Query("country"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", raw)
}
