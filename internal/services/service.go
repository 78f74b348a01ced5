package services

import (
	"context"
	"time"

	"github.com/SellStarHQ/partner-rewards-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateDealRequest is the validated input for reporting a new deal
type CreateDealRequest struct {
	ProductType models.ProductType `json:"productType" binding:"required"`
	ProductName string             `json:"productName" binding:"required"`
	DealValue   string             `json:"dealValue" binding:"required"`
	Quantity    int                `json:"quantity" binding:"required,min=1"`
	CloseDate   time.Time          `json:"closeDate" binding:"required"`
}

// RecalculationResult summarises one run of the recalculation job
type RecalculationResult struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// PointsService is the append-only point ledger
type PointsService interface {
	// Append inserts a ledger entry; dealID and rewardID are mutually exclusive
	Append(ctx context.Context, entry *models.PointsHistory) error
	// Balance returns max(0, signed sum) — the user's spendable points
	Balance(ctx context.Context, userID primitive.ObjectID) (int, error)
	// RawBalance returns the unclamped signed sum, kept for audit
	RawBalance(ctx context.Context, userID primitive.ObjectID) (int, error)
	// TotalEarned returns lifetime positive points
	TotalEarned(ctx context.Context, userID primitive.ObjectID) (int, error)
	History(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.PointsHistory, error)
}

// DealService owns the deal approval state machine and the recalculation job
type DealService interface {
	CreateDeal(ctx context.Context, userID primitive.ObjectID, req *CreateDealRequest) (*models.Deal, error)
	GetDealByID(ctx context.Context, id primitive.ObjectID) (*models.Deal, error)
	GetDealsByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Deal, error)
	GetDealsByStatus(ctx context.Context, status models.DealStatus, page, limit int) ([]*models.Deal, error)
	ApproveDeal(ctx context.Context, dealID primitive.ObjectID, approverID string) (*models.Deal, error)
	RejectDeal(ctx context.Context, dealID primitive.ObjectID, approverID string) (*models.Deal, error)
	RecalculateAllDeals(ctx context.Context) (*RecalculationResult, error)
}

// RedemptionService owns the redemption approval state machine and the
// shipment sub-state
type RedemptionService interface {
	RequestRedemption(ctx context.Context, userID, rewardID primitive.ObjectID) (*models.UserReward, error)
	GetRedemptionByID(ctx context.Context, id primitive.ObjectID) (*models.UserReward, error)
	GetRedemptionsByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.UserReward, error)
	GetRedemptionsByStatus(ctx context.Context, status models.RedemptionStatus, page, limit int) ([]*models.UserReward, error)
	ApproveRedemption(ctx context.Context, id primitive.ObjectID, adminID string) (*models.UserReward, error)
	RejectRedemption(ctx context.Context, id primitive.ObjectID, adminID, reason string) (*models.UserReward, error)
	UpdateShipmentStatus(ctx context.Context, id primitive.ObjectID, status models.ShipmentStatus, adminID string) (*models.UserReward, error)
}

// RewardService manages the reward catalog
type RewardService interface {
	CreateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error)
	GetRewardByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error)
	GetRewards(ctx context.Context, activeOnly bool, page, limit int) ([]*models.Reward, error)
	UpdateReward(ctx context.Context, reward *models.Reward) (*models.Reward, error)
	DeleteReward(ctx context.Context, id primitive.ObjectID) error
}

// RateConfigService manages the conversion rate table
type RateConfigService interface {
	GetRateConfig(ctx context.Context) (*models.RateConfig, error)
	UpdateRateConfig(ctx context.Context, config *models.RateConfig, updatedBy string) (*models.RateConfig, error)
}

// RevenueSummary is the rollup returned by the revenue report
type RevenueSummary struct {
	TotalRevenue  string            `json:"totalRevenue"`
	DealCount     int               `json:"dealCount"`
	ByProductType map[string]string `json:"byProductType"`
}

// ReportService serves read-only rollups over the ledger and deal table
type ReportService interface {
	GetUserStats(ctx context.Context, userID primitive.ObjectID) (*models.UserStats, error)
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	GetRevenueSummary(ctx context.Context, country string, start, end time.Time) (*RevenueSummary, error)
}

// AuthService handles registration and login
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// UserService manages partner accounts and the admin approval workflow
type UserService interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetAllUsers(ctx context.Context, page, limit int) ([]*models.User, error)
	GetUsersByStatus(ctx context.Context, status models.UserStatus, page, limit int) ([]*models.User, error)
	ApproveUser(ctx context.Context, id primitive.ObjectID, adminID string) (*models.User, error)
	RejectUser(ctx context.Context, id primitive.ObjectID, adminID string) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	GetUserCount(ctx context.Context) (int64, error)
}

// DrawService executes the monthly grand prize draw
type DrawService interface {
	ExecuteMonthlyDraw(ctx context.Context, month string, adminID string) (*models.Draw, error)
	GetDraws(ctx context.Context, page, limit int) ([]*models.Draw, error)
}
