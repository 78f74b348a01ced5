package routes

import (
	"net/http"

	"github.com/SellStarHQ/partner-rewards-backend/internal/config"
	"github.com/SellStarHQ/partner-rewards-backend/internal/handlers"
	"github.com/SellStarHQ/partner-rewards-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies collects the handlers the router wires up
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	DealHandler       *handlers.DealHandler
	RewardHandler     *handlers.RewardHandler
	RedemptionHandler *handlers.RedemptionHandler
	RateConfigHandler *handlers.RateConfigHandler
	ReportHandler     *handlers.ReportHandler
	DrawHandler       *handlers.DrawHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}

		// Leaderboard is public read-only
		public.GET("/leaderboard", deps.ReportHandler.GetLeaderboard)
	}

	// Protected routes — any authenticated partner
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.GET("/me", deps.UserHandler.GetMe)
		protected.GET("/stats", deps.ReportHandler.GetMyStats)

		deals := protected.Group("/deals")
		{
			deals.POST("", deps.DealHandler.CreateDeal)
			deals.GET("", deps.DealHandler.GetMyDeals)
			deals.GET("/:id", deps.DealHandler.GetDealByID)
		}

		points := protected.Group("/points")
		{
			points.GET("/balance", deps.ReportHandler.GetMyBalance)
			points.GET("/history", deps.ReportHandler.GetMyPointsHistory)
		}

		rewards := protected.Group("/rewards")
		{
			rewards.GET("", deps.RewardHandler.GetRewards)
			rewards.GET("/:id", deps.RewardHandler.GetRewardByID)
		}

		redemptions := protected.Group("/redemptions")
		{
			redemptions.POST("", deps.RedemptionHandler.RequestRedemption)
			redemptions.GET("", deps.RedemptionHandler.GetMyRedemptions)
		}

		protected.GET("/rates", deps.RateConfigHandler.GetRateConfig)
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.RequireAdmin())
	{
		users := admin.Group("/users")
		{
			users.GET("", deps.UserHandler.GetAllUsers)
			users.GET("/:id", deps.UserHandler.GetUserByID)
			users.GET("/:id/stats", deps.ReportHandler.GetUserStats)
			users.GET("/status/:status", deps.UserHandler.GetUsersByStatus)
			users.POST("/:id/approve", deps.UserHandler.ApproveUser)
			users.POST("/:id/reject", deps.UserHandler.RejectUser)
			users.DELETE("/:id", deps.UserHandler.DeleteUser)
		}

		deals := admin.Group("/deals")
		{
			deals.GET("/status/:status", deps.DealHandler.GetDealsByStatus)
			deals.POST("/:id/approve", deps.DealHandler.ApproveDeal)
			deals.POST("/:id/reject", deps.DealHandler.RejectDeal)
			deals.POST("/recalculate", deps.DealHandler.RecalculateAllDeals)
		}

		rewards := admin.Group("/rewards")
		{
			rewards.POST("", deps.RewardHandler.CreateReward)
			rewards.PUT("/:id", deps.RewardHandler.UpdateReward)
			rewards.DELETE("/:id", deps.RewardHandler.DeleteReward)
		}

		redemptions := admin.Group("/redemptions")
		{
			redemptions.GET("/status/:status", deps.RedemptionHandler.GetRedemptionsByStatus)
			redemptions.POST("/:id/approve", deps.RedemptionHandler.ApproveRedemption)
			redemptions.POST("/:id/reject", deps.RedemptionHandler.RejectRedemption)
			redemptions.PUT("/:id/shipment", deps.RedemptionHandler.UpdateShipmentStatus)
		}

		admin.PUT("/rates", deps.RateConfigHandler.UpdateRateConfig)
		admin.GET("/reports/revenue", deps.ReportHandler.GetRevenueSummary)

		draws := admin.Group("/draws")
		{
			draws.POST("", deps.DrawHandler.ExecuteDraw)
			draws.GET("", deps.DrawHandler.GetDraws)
		}
	}

	return router
}
